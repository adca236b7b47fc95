package handlers

import (
	"net/http"

	"charginguu/backend/services/sessions-service/internal/models"
	"charginguu/backend/services/sessions-service/internal/service"
)

// NewActiveSessionsHandler returns GET /sessions/active handler.
func NewActiveSessionsHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := svc.Active()
		if sessions == nil {
			sessions = []models.LiveSession{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"sessions": sessions,
		})
	}
}
