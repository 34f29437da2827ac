package http

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"time"
)

const apiVersion = "2.0.0"

var (
	//go:embed docs/api-docs.json
	apiDocsJSON []byte
)

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "SuckDSA API - Ready to roast some code!"})
}

func (h *Handler) docs(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.Unmarshal(apiDocsJSON, &doc); err != nil {
		logHTTPOperationError(r.Context(), "docs", http.StatusInternalServerError, msgPanic, err)
		writeError(w, http.StatusInternalServerError, msgPanic)
		return
	}
	base := h.baseURL
	if base == "" {
		base = "http://" + r.Host + "/api"
	}
	doc["baseUrl"] = base
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if err := h.service.CheckStorage(r.Context()); err != nil {
		database = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"timestamp":   h.now().UTC().Format(time.RFC3339Nano),
		"service":     "SuckDSA Backend (Go)",
		"environment": h.env,
		"database":    database,
		"version":     apiVersion,
	})
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgRouteNotFound)
}
