package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"charginguu/backend/services/sessions-service/internal/engine"
	"charginguu/backend/services/sessions-service/internal/invoice"
	"charginguu/backend/services/sessions-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, target interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(target)
}

// writeServiceError maps domain errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, engine.ErrInvalidState):
		writeError(w, http.StatusConflict, "session already ended")
	case errors.Is(err, service.ErrSessionActive):
		writeError(w, http.StatusConflict, "session is still active")
	case errors.Is(err, engine.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, "rate per minute must be positive")
	case errors.Is(err, service.ErrRatingRequired):
		writeError(w, http.StatusBadRequest, "Please select a rating before submitting.")
	case errors.Is(err, service.ErrEmptyIssue):
		writeError(w, http.StatusBadRequest, "issue description is required")
	case errors.Is(err, invoice.ErrInvalidToken):
		writeError(w, http.StatusNotFound, "invoice not found")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
