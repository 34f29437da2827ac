package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

type apiError struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// userView is the public profile. Optional timestamps are only set by the operations that return them.
type userView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

type chatMessageView struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

func toUserView(u domain.User) userView {
	return userView{
		ID:         u.UserID.String(),
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}
}

func toProfileView(u domain.User) userView {
	v := toUserView(u)
	created := u.CreatedAt
	v.CreatedAt = &created
	v.LastLogin = u.LastLogin
	return v
}

func toHistoryView(items []domain.ChatMessage) []chatMessageView {
	out := make([]chatMessageView, 0, len(items))
	for _, m := range items {
		out = append(out, chatMessageView{
			ID:        m.ID.String(),
			SessionID: m.SessionID,
			Message:   m.Message,
			Response:  m.Response,
			Timestamp: m.Timestamp,
		})
	}
	return out
}
