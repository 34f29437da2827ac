package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kartik99Lm10/SuckDSA/internal/application"
)

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgMissingToken)
		return
	}
	var req application.ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMappedError(r.Context(), w, opChat, err)
		return
	}

	res, err := h.service.SendMessage(r.Context(), user.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, opChat, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"response":   res.Response,
		"session_id": res.SessionID,
	})
}

// history never fails; lookup errors are logged by the service and yield an empty list.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	writeJSON(w, http.StatusOK, toHistoryView(h.service.GetHistory(r.Context(), sessionID)))
}

func (h *Handler) topics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListTopics())
}
