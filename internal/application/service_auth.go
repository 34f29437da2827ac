package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	reg, err := domain.ValidateRegistration(req.Name, req.Email, req.Password)
	if err != nil {
		return RegisterResult{}, err
	}
	if err := s.ensureEmailAvailable(ctx, reg.Email); err != nil {
		return RegisterResult{}, err
	}
	result, err := s.policy.register(ctx, s, reg)
	if err != nil {
		return RegisterResult{}, err
	}
	s.publishEvent(ctx, "user.registered", map[string]any{
		"email":    reg.Email,
		"mode":     string(result.Mode),
		"verified": !result.Pending(),
	})
	return result, nil
}

func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (AuthResult, error) {
	reg, code, err := domain.ValidateOTPVerification(req.Email, req.OTP, req.Name, req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	record, err := s.otps.Get(ctx, reg.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("load otp: %w", err)
	}
	if record == nil || record.Code != code || !record.Live(s.nowFn()) {
		return AuthResult{}, domain.ErrInvalidOrExpiredOTP
	}

	result, err := s.createVerifiedUser(ctx, reg)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.otps.Delete(ctx, reg.Email); err != nil {
		s.logWarn(ctx, "auth", "verify_otp", "failed to delete consumed otp", err)
	}
	s.publishEvent(ctx, "user.verified", map[string]any{
		"user_id": result.User.UserID.String(),
		"email":   result.User.Email,
	})
	return result, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	email, err := domain.ValidateLogin(req.Email, req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	// Pending accounts are rejected before the password is compared.
	if !user.IsVerified {
		return AuthResult{}, domain.ErrNotVerified
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthResult{}, domain.ErrInvalidPassword
	}

	now := s.nowFn()
	if err := s.users.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		return AuthResult{}, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.UserID, now)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	s.publishEvent(ctx, "user.logged_in", map[string]any{
		"user_id": user.UserID.String(),
		"at":      now,
	})
	return AuthResult{Token: token, User: user}, nil
}

// ResendOTP replaces any live code for email. Unknown emails are accepted so a pending sign-up can retry.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	normalized, err := domain.ValidateEmail(email)
	if err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, normalized)
	switch {
	case err == nil && user.IsVerified:
		return domain.ErrAlreadyVerified
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("load user: %w", err)
	}
	return s.issueOTP(ctx, normalized, "User")
}

// CurrentUser resolves a bearer token to a verified profile.
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.tokens.Parse(token, s.nowFn())
	if err != nil {
		return domain.User{}, domain.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsVerified {
		return domain.User{}, domain.ErrNotVerified
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrDuplicateUser
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check existing user: %w", err)
	}
}

func (s *Service) createVerifiedUser(ctx context.Context, reg domain.Registration) (AuthResult, error) {
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.nowFn()
	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
		IsVerified:   true,
		CreatedAt:    now,
	})
	if err != nil {
		return AuthResult{}, err
	}
	token, err := s.tokens.Issue(user.UserID, now)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, User: user}, nil
}

// issueOTP deletes the previous code before storing the new one. The two steps are not atomic.
func (s *Service) issueOTP(ctx context.Context, email, name string) error {
	if err := s.otps.Delete(ctx, email); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	now := s.nowFn()
	record := domain.OTPRecord{
		Email:     email,
		Code:      randomDigits(6),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.OTPTTL),
	}
	if err := s.otps.Put(ctx, record); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	slog.Default().DebugContext(ctx, "otp issued",
		"service", serviceName,
		"module", "auth",
		"layer", "application",
		"operation", "issue_otp",
		"email", email,
		"expires_at", record.ExpiresAt,
	)

	if err := s.mailer.SendOTP(ctx, ports.OTPEmail{To: email, Name: name, Code: record.Code}); err != nil {
		s.logWarn(ctx, "auth", "send_otp", "otp email delivery failed", err)
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	s.publishEvent(ctx, "otp.issued", map[string]any{
		"email":      email,
		"expires_at": record.ExpiresAt,
	})
	return nil
}
