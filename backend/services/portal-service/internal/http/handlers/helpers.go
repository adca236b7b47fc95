package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"charginguu/backend/services/portal-service/internal/otp"
	"charginguu/backend/services/portal-service/internal/service"
	"charginguu/backend/services/portal-service/internal/spot"
	"charginguu/backend/services/portal-service/internal/wizard"
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

type failure struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
	State  interface{}       `json:"registration,omitempty"`
}

// writeServiceError maps domain errors to HTTP statuses. state, when non-nil, is echoed so
// clients can re-render the form.
func writeServiceError(w http.ResponseWriter, err error, state interface{}, fallback string) {
	var (
		wizardErr *wizard.ValidationError
		spotErr   *spot.ValidationError
	)
	switch {
	case errors.As(err, &wizardErr):
		writeJSON(w, http.StatusUnprocessableEntity, failure{Error: "validation failed", Errors: wizardErr.Fields, State: state})
	case errors.As(err, &spotErr):
		writeJSON(w, http.StatusUnprocessableEntity, failure{Error: "validation failed", Errors: spotErr.Fields})
	case errors.Is(err, service.ErrRegistrationNotFound):
		writeError(w, http.StatusNotFound, "registration not found")
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrInvalidValue):
		writeJSON(w, http.StatusBadRequest, failure{Error: err.Error(), State: state})
	case errors.Is(err, wizard.ErrInvalidState):
		writeJSON(w, http.StatusConflict, failure{Error: err.Error(), State: state})
	case errors.Is(err, wizard.ErrPhoneNotReady):
		writeJSON(w, http.StatusUnprocessableEntity, failure{Error: "Please enter a valid phone number", State: state})
	case errors.Is(err, otp.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many codes requested, try again later")
	case errors.Is(err, otp.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, "too many wrong codes, request a new one")
	case errors.Is(err, otp.ErrCodeMismatch):
		writeError(w, http.StatusUnprocessableEntity, "verification code does not match")
	case errors.Is(err, otp.ErrCodeExpired):
		writeError(w, http.StatusUnprocessableEntity, "verification code expired, request a new one")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
