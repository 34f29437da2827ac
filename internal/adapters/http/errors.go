package http

import (
	"errors"
	"net/http"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

const (
	opRegister     = "register"
	opVerifyOTP    = "verify_otp"
	opLogin        = "login"
	opResendOTP    = "resend_otp"
	opAuthenticate = "authenticate"
	opChat         = "chat"
)

const (
	msgRouteNotFound   = "Route not found"
	msgPanic           = "Something went wrong!"
	msgMissingToken    = "Arre yaar! Token nahi mila. Login kar pehle, phir savage teacher se baat kar! 🔐"
	msgGhostUser       = "User not found. Kya bhai, ghost ban gaye ho? 👻"
	msgVerifyFirst     = "Email verify kar pehle, phir DSA seekhne aa! OTP check kar apne inbox mein 📧"
	msgInvalidToken    = "Invalid token. Phir se login kar, token expired ho gaya! ⏰"
	msgGlobalLimited   = "Arre yaar! Too many requests from your IP. Take a chai break and try again later! ☕"
	msgChatLimited     = "Slow down, speed racer! Even the savage teacher needs time to think. Wait a minute! 🐌"
	msgDuplicateUser   = "Email already registered hai! Login kar ya bhool gaye password? 🤔"
	msgEmailNotFound   = "Email not found! Register kar pehle, phir login kar 📝"
	msgWrongPassword   = "Password galat hai! Bhool gaye kya? 🤔"
	msgLoginPending    = "Email verify nahi kiya! OTP check kar inbox mein 📧"
	msgBadOTP          = "Invalid OTP! Galat code daal rahe ho ya expired ho gaya? 🕐"
	msgAlreadyVerified = "Already verified hai! Login kar le 😊"
	msgEmailDelivery   = "Email bhejne mein problem! Try again 📧"
)

var validationMessages = map[string]string{
	opRegister:  "Arre yaar! Form bharne mein bhi galti kar rahe ho? Fix these errors:",
	opVerifyOTP: "Invalid data! Check your inputs 🤦‍♂️",
	opLogin:     "Login details galat hain! Check kar ke daal 🔍",
	opResendOTP: "Invalid data! Check your inputs 🤦‍♂️",
	opChat:      "Arre yaar! Your input is messier than a Mumbai street during monsoon! Fix these errors:",
}

var internalMessages = map[string]string{
	opRegister:     "Registration mein problem hai! Server ka mood off hai 😅",
	opVerifyOTP:    "Verification failed! Try again 😓",
	opLogin:        "Login mein problem! Server ka mood off hai 😅",
	opResendOTP:    "OTP resend failed! Try again 😓",
	opAuthenticate: msgInvalidToken,
	opChat:         "Savage teacher is having a bad day. Try again!",
}

// mapDomainError resolves the status and user-facing message for an operation failure.
// Internal error text never reaches the client.
func mapDomainError(operation string, err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, validationMessages[operation]
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusBadRequest, msgDuplicateUser
	case errors.Is(err, domain.ErrUserNotFound):
		if operation == opAuthenticate {
			return http.StatusUnauthorized, msgGhostUser
		}
		return http.StatusUnauthorized, msgEmailNotFound
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, msgWrongPassword
	case errors.Is(err, domain.ErrNotVerified):
		if operation == opAuthenticate {
			return http.StatusUnauthorized, msgVerifyFirst
		}
		return http.StatusUnauthorized, msgLoginPending
	case errors.Is(err, domain.ErrInvalidOrExpiredOTP):
		return http.StatusBadRequest, msgBadOTP
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, msgAlreadyVerified
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, msgInvalidToken
	case errors.Is(err, domain.ErrRateLimited):
		if operation == opChat {
			return http.StatusTooManyRequests, msgChatLimited
		}
		return http.StatusTooManyRequests, msgGlobalLimited
	case errors.Is(err, domain.ErrEmailDelivery):
		return http.StatusInternalServerError, msgEmailDelivery
	default:
		if msg, ok := internalMessages[operation]; ok {
			return http.StatusInternalServerError, msg
		}
		return http.StatusInternalServerError, msgPanic
	}
}
