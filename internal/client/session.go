// Package client is the session controller used by the SuckDSA frontends.
package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

const (
	defaultLoginFailure    = "Login failed!"
	defaultRegisterFailure = "Registration failed!"
	defaultVerifyFailure   = "OTP verification failed!"
	defaultResendFailure   = "Failed to resend OTP!"
)

// Result is returned by the auth actions. API failures are reported through
// Success=false and Message, never through an error.
type Result struct {
	Success   bool
	Message   string
	AutoLogin bool
	Email     string
}

// State is a snapshot of the controller.
type State struct {
	User    *User
	Token   string
	Loading bool
}

type Controller struct {
	api    *apiClient
	store  TokenStore
	logger *slog.Logger

	mu      sync.Mutex
	user    *User
	token   string
	loading bool
}

type Options struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewController(baseURL string, store TokenStore, opts Options) *Controller {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:     newAPIClient(baseURL, opts.HTTPClient),
		store:   store,
		logger:  logger.With("module", "client"),
		loading: true,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	var user *User
	if c.user != nil {
		u := *c.user
		user = &u
	}
	return State{User: user, Token: c.token, Loading: c.loading}
}

func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.token != ""
}

// Init restores the persisted session. A token the server rejects is discarded.
func (c *Controller) Init(ctx context.Context) error {
	defer c.setLoading(false)

	token, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	var body struct {
		User *User `json:"user"`
	}
	if err := c.api.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &body); err != nil || body.User == nil {
		c.logger.Info("stored session rejected", "outcome", "logout", "error", err)
		c.Logout(ctx)
		return nil
	}

	c.mu.Lock()
	c.user = body.User
	c.mu.Unlock()
	return nil
}

func (c *Controller) Login(ctx context.Context, email, password string) Result {
	var resp authResponse
	err := c.api.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return failure(err, defaultLoginFailure)
	}
	if err := c.signIn(ctx, resp.Token, resp.User); err != nil {
		return failure(err, defaultLoginFailure)
	}
	return Result{Success: true, Message: resp.Message}
}

// Register signs the user in directly when the server returns a token,
// otherwise the caller should continue with VerifyOTP for Result.Email.
func (c *Controller) Register(ctx context.Context, name, email, password string) Result {
	var resp authResponse
	err := c.api.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return failure(err, defaultRegisterFailure)
	}
	if resp.Token != "" {
		if err := c.signIn(ctx, resp.Token, resp.User); err != nil {
			return failure(err, defaultRegisterFailure)
		}
		return Result{Success: true, Message: resp.Message, AutoLogin: true}
	}
	addr := resp.Email
	if addr == "" {
		addr = email
	}
	return Result{Success: true, Message: resp.Message, Email: addr}
}

// VerifyOTP completes a pending registration. The server re-validates the
// name and password submitted with Register.
func (c *Controller) VerifyOTP(ctx context.Context, email, otp, name, password string) Result {
	var resp authResponse
	err := c.api.do(ctx, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{
		"email":    email,
		"otp":      otp,
		"name":     name,
		"password": password,
	}, &resp)
	if err != nil {
		return failure(err, defaultVerifyFailure)
	}
	if err := c.signIn(ctx, resp.Token, resp.User); err != nil {
		return failure(err, defaultVerifyFailure)
	}
	return Result{Success: true, Message: resp.Message}
}

func (c *Controller) ResendOTP(ctx context.Context, email string) Result {
	var resp authResponse
	err := c.api.do(ctx, http.MethodPost, "/api/auth/resend-otp", "", map[string]string{"email": email}, &resp)
	if err != nil {
		return failure(err, defaultResendFailure)
	}
	return Result{Success: true, Message: resp.Message, Email: email}
}

// Logout drops the in-memory session before clearing the store.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.user = nil
	c.token = ""
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("clear stored token failed", "outcome", "failure", "error", err)
	}
}

func (c *Controller) Chat(ctx context.Context, message, sessionID string) (ChatReply, error) {
	body := map[string]string{"message": message}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var reply ChatReply
	if err := c.api.do(ctx, http.MethodPost, "/api/chat", c.currentToken(), body, &reply); err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}

func (c *Controller) History(ctx context.Context, sessionID string) ([]HistoryItem, error) {
	items := []HistoryItem{}
	path := "/api/chat/history/" + url.PathEscape(sessionID)
	if err := c.api.do(ctx, http.MethodGet, path, c.currentToken(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Controller) Topics(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	if err := c.api.do(ctx, http.MethodGet, "/api/topics", "", nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (c *Controller) signIn(ctx context.Context, token string, user *User) error {
	if token == "" || user == nil {
		return errors.New("missing session in response")
	}
	if err := c.store.Save(ctx, token); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()
	return nil
}

func (c *Controller) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func failure(err error, fallback string) Result {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Result{Message: apiErr.Message}
	}
	return Result{Message: fallback}
}
