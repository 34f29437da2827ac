package http

import (
	"net/http"

	"github.com/kartik99Lm10/SuckDSA/internal/application"
)

const (
	msgRegisteredDirect = "Registration successful! Welcome to SuckDSA! 🔥"
	msgOTPSent          = "OTP sent to your email! Check inbox and verify karo 📧"
	msgVerified         = "Registration successful! Welcome to SuckDSA family! 🎉"
	msgLoggedIn         = "Login successful! Ready to get roasted? 🔥"
	msgOTPResent        = "New OTP sent! Check your inbox 📧"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMappedError(r.Context(), w, opRegister, err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, opRegister, err)
		return
	}
	if res.Pending() {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  msgOTPSent,
			"email":    res.Email,
			"nextStep": res.NextStep,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": msgRegisteredDirect,
		"token":   res.Token,
		"user":    toUserView(*res.User),
	})
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req application.VerifyOTPRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMappedError(r.Context(), w, opVerifyOTP, err)
		return
	}

	res, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, opVerifyOTP, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": msgVerified,
		"token":   res.Token,
		"user":    toUserView(res.User),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMappedError(r.Context(), w, opLogin, err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, opLogin, err)
		return
	}
	user := toUserView(res.User)
	user.LastLogin = res.User.LastLogin
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msgLoggedIn,
		"token":   res.Token,
		"user":    user,
	})
}

func (h *Handler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeMappedError(r.Context(), w, opResendOTP, err)
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		writeMappedError(r.Context(), w, opResendOTP, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgOTPResent})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgMissingToken)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toProfileView(user)})
}
