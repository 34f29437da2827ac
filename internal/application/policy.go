package application

import (
	"context"
	"fmt"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

// RegistrationPolicy decides what Register does with a validated sign-up.
// The two variants are OTPVerification and DirectVerification.
type RegistrationPolicy interface {
	Mode() domain.RegistrationMode
	register(ctx context.Context, s *Service, reg domain.Registration) (RegisterResult, error)
}

// NewRegistrationPolicy resolves a configured mode.
func NewRegistrationPolicy(mode domain.RegistrationMode) (RegistrationPolicy, error) {
	switch mode {
	case domain.RegistrationModeOTP:
		return OTPVerification(), nil
	case domain.RegistrationModeDirect:
		return DirectVerification(), nil
	default:
		return nil, fmt.Errorf("%w: unknown registration mode %q", domain.ErrInvalidInput, mode)
	}
}

// OTPVerification stores and mails a code; the account is created by VerifyOTP.
func OTPVerification() RegistrationPolicy { return otpPolicy{} }

// DirectVerification creates a verified account and signs the user in immediately.
func DirectVerification() RegistrationPolicy { return directPolicy{} }

type otpPolicy struct{}

func (otpPolicy) Mode() domain.RegistrationMode { return domain.RegistrationModeOTP }

func (otpPolicy) register(ctx context.Context, s *Service, reg domain.Registration) (RegisterResult, error) {
	if err := s.issueOTP(ctx, reg.Email, reg.Name); err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{
		Mode:     domain.RegistrationModeOTP,
		Email:    reg.Email,
		NextStep: "verify-otp",
	}, nil
}

type directPolicy struct{}

func (directPolicy) Mode() domain.RegistrationMode { return domain.RegistrationModeDirect }

func (directPolicy) register(ctx context.Context, s *Service, reg domain.Registration) (RegisterResult, error) {
	result, err := s.createVerifiedUser(ctx, reg)
	if err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{
		Mode:  domain.RegistrationModeDirect,
		Email: result.User.Email,
		Token: result.Token,
		User:  &result.User,
	}, nil
}
