package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"charginguu/backend/services/portal-service/internal/models"
	"charginguu/backend/services/portal-service/internal/service"
)

// NewCreateRegistrationHandler handles POST /registrations.
func NewCreateRegistrationHandler(svc *service.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, svc.Create())
	}
}

// NewGetRegistrationHandler handles GET /registrations/{id}.
func NewGetRegistrationHandler(svc *service.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, nil, "failed to load registration")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// NewUpdateRegistrationHandler handles PATCH /registrations/{id}. The body is a flat object
// of field name to value; booleans and numbers are accepted for convenience.
func NewUpdateRegistrationHandler(svc *service.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		values := make(map[string]string, len(body))
		for k, v := range body {
			switch val := v.(type) {
			case string:
				values[k] = val
			case bool:
				values[k] = strconv.FormatBool(val)
			case nil:
				values[k] = ""
			default:
				values[k] = fmt.Sprint(val)
			}
		}

		v, err := svc.SetFields(r.PathValue("id"), values)
		if err != nil {
			writeServiceError(w, err, stateOf(v), "failed to update registration")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// NewRegistrationStepHandler handles POST /registrations/{id}/next and /back.
func NewRegistrationStepHandler(step func(string) (models.RegistrationView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := step(r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, stateOf(v), "failed to change step")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// NewSubmitRegistrationHandler handles POST /registrations/{id}/submit.
func NewSubmitRegistrationHandler(svc *service.RegistrationService) http.HandlerFunc {
	type response struct {
		Message      string                   `json:"message"`
		Registration *models.HostRegistration `json:"registration"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		reg, v, err := svc.Submit(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, stateOf(v), "failed to submit registration")
			return
		}
		writeJSON(w, http.StatusCreated, response{
			Message:      "Registration submitted successfully!",
			Registration: reg,
		})
	}
}

// NewSendCodeHandler handles POST /registrations/{id}/otp.
func NewSendCodeHandler(svc *service.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.SendCode(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, stateOf(v), "failed to send verification code")
			return
		}
		writeJSON(w, http.StatusAccepted, v)
	}
}

// NewVerifyCodeHandler handles POST /registrations/{id}/otp/verify.
func NewVerifyCodeHandler(svc *service.RegistrationService) http.HandlerFunc {
	type request struct {
		Code string `json:"code"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		v, err := svc.VerifyCode(r.Context(), r.PathValue("id"), req.Code)
		if err != nil {
			writeServiceError(w, err, stateOf(v), "failed to verify code")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func stateOf(v models.RegistrationView) interface{} {
	if v.ID == "" {
		return nil
	}
	return v
}
