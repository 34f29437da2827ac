package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/adapters/memory"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/security"
	"github.com/kartik99Lm10/SuckDSA/internal/application"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type captureMailer struct {
	mu   sync.Mutex
	last ports.OTPEmail
}

func (m *captureMailer) SendOTP(_ context.Context, msg ports.OTPEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = msg
	return nil
}

func (m *captureMailer) code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Code
}

type replyCompletion struct {
	reply string
	err   error
}

func (c replyCompletion) Complete(context.Context, string) (string, error) {
	return c.reply, c.err
}

type testServer struct {
	router http.Handler
	mailer *captureMailer
}

func newTestServer(t *testing.T, policy application.RegistrationPolicy, opts Options, completion ports.CompletionClient) *testServer {
	t.Helper()

	tokens, err := security.NewJWTIssuer("test-secret", security.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("jwt issuer: %v", err)
	}
	mailer := &captureMailer{}
	svc := application.NewService(application.Dependencies{
		Policy:     policy,
		Users:      memory.NewUserRepository(),
		OTPs:       memory.NewOTPStore(nil),
		Chats:      memory.NewChatRepository(),
		Hasher:     security.NewBcryptHasher(4),
		Tokens:     tokens,
		Mailer:     mailer,
		Completion: completion,
		Sleep:      func(context.Context, time.Duration) error { return nil },
	})
	if opts.Limiter == nil {
		opts.Limiter = application.NewRateLimiter(memory.NewRateLimitStore(), nil)
	}
	return &testServer{router: NewRouter(NewHandler(svc, opts)), mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:51000"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestOTPRegistrationToChatFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.OTPVerification(), Options{}, replyCompletion{reply: "Stack is a plate pile, beta."})

	rec, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "Asha@X.com", "password": "secret1",
	})
	if rec.Code != http.StatusOK || body["nextStep"] != "verify-otp" || body["email"] != "asha@x.com" {
		t.Fatalf("unexpected register response %d %v", rec.Code, body)
	}

	rec, body = s.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{
		"email": "asha@x.com", "otp": s.mailer.code(), "name": "Asha", "password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("verify-otp failed: %d %v", rec.Code, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["isVerified"] != true || user["email"] != "asha@x.com" || body["token"] == "" {
		t.Fatalf("unexpected verify body %v", body)
	}

	rec, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@x.com", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %v", rec.Code, body)
	}
	token, _ := body["token"].(string)
	if user, _ := body["user"].(map[string]any); user["lastLogin"] == nil {
		t.Fatalf("login user should include lastLogin: %v", body)
	}

	rec, body = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me failed: %d %v", rec.Code, body)
	}
	if me, _ := body["user"].(map[string]any); me["createdAt"] == nil || me["password"] != nil {
		t.Fatalf("unexpected profile %v", body)
	}

	rec, body = s.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "Explain stacks"})
	if rec.Code != http.StatusOK || body["response"] != "Stack is a plate pile, beta." {
		t.Fatalf("chat failed: %d %v", rec.Code, body)
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("expected a generated session id")
	}

	rec, _ = s.do(t, http.MethodGet, "/api/chat/history/"+sessionID, token, nil)
	var history []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil || len(history) != 1 {
		t.Fatalf("unexpected history %s err=%v", rec.Body.String(), err)
	}
	if history[0]["message"] != "Explain stacks" || history[0]["session_id"] != sessionID {
		t.Fatalf("unexpected history item %v", history[0])
	}
}

func TestDirectRegistrationReturnsToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{}, replyCompletion{reply: "ok"})
	rec, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ravi", "email": "ravi@x.com", "password": "secret1",
	})
	if rec.Code != http.StatusCreated || body["token"] == nil || body["message"] != msgRegisteredDirect {
		t.Fatalf("unexpected direct register %d %v", rec.Code, body)
	}

	rec, body = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ravi", "email": "ravi@x.com", "password": "secret1",
	})
	if rec.Code != http.StatusBadRequest || body["error"] != msgDuplicateUser {
		t.Fatalf("expected duplicate rejection, got %d %v", rec.Code, body)
	}
}

func TestRegisterValidationDetails(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.OTPVerification(), Options{}, replyCompletion{reply: "ok"})
	rec, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "A", "email": "nope", "password": "123",
	})
	if rec.Code != http.StatusBadRequest || body["error"] != validationMessages[opRegister] {
		t.Fatalf("unexpected validation response %d %v", rec.Code, body)
	}
	details, _ := body["details"].([]any)
	if len(details) != 3 {
		t.Fatalf("expected 3 field errors, got %v", body["details"])
	}
}

func TestLoginErrorsAreUnauthorized(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{}, replyCompletion{reply: "ok"})
	rec, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@x.com", "password": "secret1"})
	if rec.Code != http.StatusUnauthorized || body["error"] != msgEmailNotFound {
		t.Fatalf("unexpected unknown-email response %d %v", rec.Code, body)
	}

	s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Ravi", "email": "ravi@x.com", "password": "secret1"})
	rec, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ravi@x.com", "password": "wrong12"})
	if rec.Code != http.StatusUnauthorized || body["error"] != msgWrongPassword {
		t.Fatalf("unexpected wrong-password response %d %v", rec.Code, body)
	}
}

func TestAuthMiddlewareErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{}, replyCompletion{reply: "ok"})
	rec, body := s.do(t, http.MethodPost, "/api/chat", "", map[string]string{"message": "hi"})
	if rec.Code != http.StatusUnauthorized || body["error"] != msgMissingToken {
		t.Fatalf("unexpected missing-token response %d %v", rec.Code, body)
	}
	rec, body = s.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	if rec.Code != http.StatusForbidden || body["error"] != msgInvalidToken {
		t.Fatalf("unexpected bad-token response %d %v", rec.Code, body)
	}
}

func TestChatFallsBackWhenCompletionFails(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{}, replyCompletion{err: errors.New("down")})
	_, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Ravi", "email": "ravi@x.com", "password": "secret1"})
	token, _ := body["token"].(string)

	rec, body := s.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "what is a queue"})
	if rec.Code != http.StatusOK {
		t.Fatalf("fallback chat should succeed: %d %v", rec.Code, body)
	}
	if text, _ := body["response"].(string); !strings.Contains(strings.ToLower(text), "queue") {
		t.Fatalf("expected queue fallback, got %q", text)
	}

	rec, body = s.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hi", "session_id": "not-a-uuid"})
	if rec.Code != http.StatusBadRequest || body["error"] != validationMessages[opChat] {
		t.Fatalf("expected invalid session rejection, got %d %v", rec.Code, body)
	}
}

func TestChatRateLimit(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{
		ChatRule: application.RateLimitRule{Name: "chat", Limit: 2, Window: time.Minute},
	}, replyCompletion{reply: "ok"})
	_, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Ravi", "email": "ravi@x.com", "password": "secret1"})
	token, _ := body["token"].(string)

	for i := 0; i < 2; i++ {
		if rec, _ := s.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "array"}); rec.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}
	rec, body := s.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "array"})
	if rec.Code != http.StatusTooManyRequests || body["error"] != msgChatLimited {
		t.Fatalf("expected chat rate limit, got %d %v", rec.Code, body)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", rec.Header())
	}
}

func TestGlobalRateLimit(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{
		GlobalRule: application.RateLimitRule{Name: "global", Limit: 2, Window: 15 * time.Minute},
	}, replyCompletion{reply: "ok"})
	s.do(t, http.MethodGet, "/api/", "", nil)
	s.do(t, http.MethodGet, "/api/topics", "", nil)
	rec, body := s.do(t, http.MethodGet, "/api/topics", "", nil)
	if rec.Code != http.StatusTooManyRequests || body["error"] != msgGlobalLimited {
		t.Fatalf("expected global rate limit, got %d %v", rec.Code, body)
	}
}

func TestMetaRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.OTPVerification(), Options{Environment: "test"}, replyCompletion{reply: "ok"})

	_, body := s.do(t, http.MethodGet, "/api/", "", nil)
	if body["message"] != "SuckDSA API - Ready to roast some code!" {
		t.Fatalf("unexpected root %v", body)
	}
	_, body = s.do(t, http.MethodGet, "/health", "", nil)
	if body["status"] != "healthy" || body["database"] != "connected" || body["environment"] != "test" || body["version"] != apiVersion {
		t.Fatalf("unexpected health %v", body)
	}
	_, body = s.do(t, http.MethodGet, "/api/docs", "", nil)
	if body["title"] != "SuckDSA API Documentation" || body["baseUrl"] == "" {
		t.Fatalf("unexpected docs %v", body)
	}
	rec, _ := s.do(t, http.MethodGet, "/api/topics", "", nil)
	var topics []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &topics); err != nil || len(topics) != 4 {
		t.Fatalf("unexpected topics %s", rec.Body.String())
	}
	rec, body = s.do(t, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound || body["error"] != msgRouteNotFound {
		t.Fatalf("unexpected not-found %d %v", rec.Code, body)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	t.Parallel()

	h := recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), msgPanic) {
		t.Fatalf("unexpected recovery response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRotatingForwardedForStillLimited(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, application.DirectVerification(), Options{
		GlobalRule: application.RateLimitRule{Name: "global", Limit: 2, Window: 15 * time.Minute},
	}, replyCompletion{reply: "ok"})

	rejected := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			rejected++
		}
	}
	if rejected != 18 {
		t.Fatalf("expected 18 rejections from one peer, got %d", rejected)
	}
}

func TestForwardedForHonouredBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}
	s := newTestServer(t, application.DirectVerification(), Options{
		GlobalRule:     application.RateLimitRule{Name: "global", Limit: 1, Window: 15 * time.Minute},
		TrustedProxies: trusted,
	}, replyCompletion{reply: "ok"})

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send("198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first client should pass, got %d", code)
	}
	if code := send("198.51.100.2, 192.0.2.1"); code != http.StatusOK {
		t.Fatalf("distinct client behind two proxies should pass, got %d", code)
	}
	// a spoofed leftmost hop does not change the identity appended by the proxy
	if code := send("203.0.113.99, 198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected repeat client to be limited, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	trusted, err := ParseTrustedProxies([]string{"10.0.0.1", "::1"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}
	open := NewHandler(nil, Options{})
	proxied := NewHandler(nil, Options{TrustedProxies: trusted})

	cases := []struct {
		name   string
		h      *Handler
		remote string
		xff    string
		want   string
	}{
		{"peer only", open, "10.0.0.1:1234", "", "10.0.0.1"},
		{"untrusted ignores header", open, "10.0.0.1:1234", "198.51.100.1", "10.0.0.1"},
		{"trusted reads header", proxied, "10.0.0.1:1234", "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"untrusted peer with config", proxied, "203.0.113.5:1", "198.51.100.1", "203.0.113.5"},
		{"ipv6 peer", proxied, "[::1]:8080", "2001:db8::7", "2001:db8::7"},
		{"trusted without header", proxied, "10.0.0.1:1", "", "10.0.0.1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remote
		if tc.xff != "" {
			req.Header.Set("X-Forwarded-For", tc.xff)
		}
		if got := tc.h.clientIP(req); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}

	if _, err := ParseTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatalf("expected invalid proxy entry to fail")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	if _, err := bearerTokenFromHeader("Basic abc"); err == nil {
		t.Fatalf("expected scheme rejection")
	}
	if tok, err := bearerTokenFromHeader("bearer abc"); err != nil || tok != "abc" {
		t.Fatalf("unexpected token %q err=%v", tok, err)
	}
}
