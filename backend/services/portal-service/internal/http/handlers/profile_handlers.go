package handlers

import (
	"net/http"

	"charginguu/backend/services/portal-service/internal/profile"
)

// NewProfileHandler handles GET /profile.
func NewProfileHandler(svc *profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Get(r.Context()))
	}
}

// NewLogoutHandler handles POST /profile/logout.
func NewLogoutHandler(svc *profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
