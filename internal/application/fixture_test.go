package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/memory"
	"github.com/kartik99Lm10/SuckDSA/internal/application"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type fixture struct {
	service    *application.Service
	users      *memory.UserRepository
	otps       *memory.OTPStore
	chats      *memory.ChatRepository
	mailer     *fakeMailer
	completion *fakeCompletion
	publisher  *fakePublisher
	clock      *fakeClock
	sleeps     *sleepRecorder
}

func newFixture(policy application.RegistrationPolicy) *fixture {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	f := &fixture{
		users:      memory.NewUserRepository(),
		otps:       memory.NewOTPStore(clock.Now),
		chats:      memory.NewChatRepository(),
		mailer:     &fakeMailer{},
		completion: &fakeCompletion{},
		publisher:  &fakePublisher{},
		clock:      clock,
		sleeps:     &sleepRecorder{},
	}
	f.service = application.NewService(application.Dependencies{
		Config:     application.Config{OTPTTL: 5 * time.Minute},
		Policy:     policy,
		Users:      f.users,
		OTPs:       f.otps,
		Chats:      f.chats,
		Hasher:     fakeHasher{},
		Tokens:     &fakeTokens{clock: clock},
		Mailer:     f.mailer,
		Completion: f.completion,
		Publisher:  f.publisher,
		Now:        clock.Now,
		Sleep:      f.sleeps.Sleep,
	})
	return f
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct {
	clock *fakeClock
}

func (f *fakeTokens) Issue(userID uuid.UUID, now time.Time) (string, error) {
	return "tok:" + userID.String() + ":" + now.Add(7*24*time.Hour).Format(time.RFC3339), nil
}

func (f *fakeTokens) Parse(token string, now time.Time) (ports.TokenClaims, error) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "tok" {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	exp, err := time.Parse(time.RFC3339, parts[2])
	if err != nil || !now.Before(exp) {
		return ports.TokenClaims{}, domain.ErrInvalidToken
	}
	return ports.TokenClaims{UserID: id, ExpiresAt: exp}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.OTPEmail
	err  error
}

func (m *fakeMailer) SendOTP(_ context.Context, msg ports.OTPEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() ports.OTPEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.OTPEmail{}
	}
	return m.sent[len(m.sent)-1]
}

// fakeCompletion fails the first failures calls, then answers with reply.
type fakeCompletion struct {
	mu       sync.Mutex
	failures int
	reply    string
	calls    int
	prompts  []string
}

func (c *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.calls <= c.failures {
		return "", errors.New("upstream unavailable")
	}
	return c.reply, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ []byte) error {
	p.mu.Lock()
	p.events = append(p.events, eventType)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == eventType {
			return true
		}
	}
	return false
}

func portsCreate(email, hash string, verified bool) ports.CreateUserParams {
	return ports.CreateUserParams{Name: "Seed", Email: email, PasswordHash: hash, IsVerified: verified}
}

type failingChats struct{}

func (failingChats) Append(context.Context, domain.ChatMessage) error {
	return errors.New("chat store down")
}

func (failingChats) ListBySession(context.Context, string, int) ([]domain.ChatMessage, error) {
	return nil, errors.New("chat store down")
}
