package application

import (
	"context"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type Service struct {
	cfg        Config
	policy     RegistrationPolicy
	users      ports.UserRepository
	otps       ports.OTPStore
	chats      ports.ChatRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	mailer     ports.Mailer
	completion ports.CompletionClient
	publisher  ports.EventPublisher
	metrics    ports.Metrics
	nowFn      func() time.Time
	sleep      Sleeper
}

type Dependencies struct {
	Config     Config
	Policy     RegistrationPolicy
	Users      ports.UserRepository
	OTPs       ports.OTPStore
	Chats      ports.ChatRepository
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	Mailer     ports.Mailer
	Completion ports.CompletionClient
	Publisher  ports.EventPublisher
	Metrics    ports.Metrics

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep Sleeper
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		cfg:        deps.Config.withDefaults(),
		policy:     deps.Policy,
		users:      deps.Users,
		otps:       deps.OTPs,
		chats:      deps.Chats,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		mailer:     deps.Mailer,
		completion: deps.Completion,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		nowFn:      deps.Now,
		sleep:      deps.Sleep,
	}
	if s.policy == nil {
		s.policy = OTPVerification()
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.nowFn == nil {
		s.nowFn = func() time.Time { return time.Now().UTC() }
	}
	if s.sleep == nil {
		s.sleep = SleepContext
	}
	return s
}

// RegistrationMode reports the policy chosen at startup.
func (s *Service) RegistrationMode() string {
	return string(s.policy.Mode())
}

type noopMetrics struct{}

func (noopMetrics) CompletionAttempt(string) {}
func (noopMetrics) FallbackUsed(string)      {}
func (noopMetrics) RateLimited(string)       {}

var _ ports.Metrics = noopMetrics{}

// CheckStorage pings the credential store when it supports it.
func (s *Service) CheckStorage(ctx context.Context) error {
	if hc, ok := s.users.(ports.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}
