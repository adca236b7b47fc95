package handlers

import (
	"net/http"

	"charginguu/backend/services/sessions-service/internal/service"
)

// NewRatingHandler handles POST /sessions/{id}/rating.
func NewRatingHandler(svc *service.SessionsService) http.HandlerFunc {
	type request struct {
		Stars  int    `json:"stars"`
		Review string `json:"review"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		rating, err := svc.Rate(r.Context(), r.PathValue("id"), req.Stars, req.Review)
		if err != nil {
			writeServiceError(w, err, "failed to save rating")
			return
		}
		writeJSON(w, http.StatusCreated, rating)
	}
}

// NewFavoriteHandler handles POST /sessions/{id}/favorite.
func NewFavoriteHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		added, err := svc.AddFavorite(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, "failed to add favorite")
			return
		}
		status := http.StatusOK
		if added {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]bool{"favorite": true})
	}
}

// NewIssueHandler handles POST /sessions/{id}/issues.
func NewIssueHandler(svc *service.SessionsService) http.HandlerFunc {
	type request struct {
		Description string `json:"description"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		issue, err := svc.ReportIssue(r.Context(), r.PathValue("id"), req.Description)
		if err != nil {
			writeServiceError(w, err, "failed to report issue")
			return
		}
		writeJSON(w, http.StatusCreated, issue)
	}
}
