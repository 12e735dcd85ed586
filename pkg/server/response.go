package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/pipeline"
)

// envelope is the uniform response shape for every /api endpoint.
type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Warn("response encoding failed", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, data any, sessionID string) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		SessionID: sessionID,
	})
}

// writeError maps domain errors to HTTP statuses. Unrecognized errors
// become a generic 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var verr *pipeline.ValidationError
	var aerr *auth.AuthError
	var perr *auth.PermissionError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Error()
	case errors.As(err, &aerr):
		status = http.StatusUnauthorized
		message = aerr.Error()
	case errors.As(err, &perr):
		status = http.StatusForbidden
		message = perr.Error()
	}

	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, envelope{
		Success: false,
		Error:   "method not allowed",
	})
}
