package domain

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	minNameLength     = 2
	maxNameLength     = 50
	minPasswordLength = 6
	otpLength         = 6
	maxMessageLength  = 500
)

// NormalizeEmail trims, lower-cases and syntax-checks an address.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", false
	}
	return email, true
}

// Registration is the normalized form of a sign-up request.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// ValidateRegistration checks name, email and password shape and returns the normalized values.
func ValidateRegistration(name, email, password string) (Registration, error) {
	var verr ValidationError
	reg := Registration{Name: strings.TrimSpace(name), Password: password}
	if n := utf8.RuneCountInString(reg.Name); n < minNameLength || n > maxNameLength {
		verr.add("name", "Name must be 2-50 characters")
	}
	normalized, ok := NormalizeEmail(email)
	if !ok {
		verr.add("email", "Valid email required")
	}
	reg.Email = normalized
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.add("password", "Password must be at least 6 characters")
	}
	return reg, verr.orNil()
}

// ValidateOTPVerification checks the verify-otp payload.
func ValidateOTPVerification(email, code, name, password string) (Registration, string, error) {
	reg, err := ValidateRegistration(name, email, password)
	var verr ValidationError
	if err != nil {
		verr = *err.(*ValidationError)
	}
	code = strings.TrimSpace(code)
	if len(code) != otpLength {
		verr.add("otp", "OTP must be 6 digits")
	}
	return reg, code, verr.orNil()
}

// ValidateLogin checks the login payload.
func ValidateLogin(email, password string) (string, error) {
	var verr ValidationError
	normalized, ok := NormalizeEmail(email)
	if !ok {
		verr.add("email", "Valid email required")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.add("password", "Password must be at least 6 characters")
	}
	return normalized, verr.orNil()
}

// ValidateEmail checks a bare email payload such as resend-otp.
func ValidateEmail(email string) (string, error) {
	normalized, ok := NormalizeEmail(email)
	if !ok {
		verr := ValidationError{}
		verr.add("email", "Valid email required")
		return "", &verr
	}
	return normalized, nil
}

// ChatInput is a sanitized chat request.
type ChatInput struct {
	Message   string
	SessionID string
}

// ValidateChat trims, length-checks and escapes the message. An empty session id is allowed.
func ValidateChat(message, sessionID string) (ChatInput, error) {
	var verr ValidationError
	trimmed := strings.TrimSpace(message)
	if n := utf8.RuneCountInString(trimmed); n < 1 || n > maxMessageLength {
		verr.add("message", "Message must be between 1 and 500 characters")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			verr.add("session_id", "Session ID must be a valid UUID")
		}
	}
	if err := verr.orNil(); err != nil {
		return ChatInput{}, err
	}
	return ChatInput{Message: EscapeHTML(trimmed), SessionID: sessionID}, nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML replaces & < > " ' / with their entity forms.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
