package handlers

import (
	"net/http"

	"charginguu/backend/services/sessions-service/internal/service"
)

// NewStartSessionHandler handles POST /sessions.
func NewStartSessionHandler(svc *service.SessionsService) http.HandlerFunc {
	type request struct {
		SpotID         string  `json:"spot_id"`
		SpotName       string  `json:"spot_name"`
		RatePerMinute  float64 `json:"rate_per_minute"`
		InitialBattery *int    `json:"initial_battery"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		live, err := svc.Start(r.Context(), service.StartSessionInput{
			SpotID:         req.SpotID,
			SpotName:       req.SpotName,
			RatePerMinute:  req.RatePerMinute,
			InitialBattery: req.InitialBattery,
		})
		if err != nil {
			writeServiceError(w, err, "failed to start session")
			return
		}
		writeJSON(w, http.StatusCreated, live)
	}
}

// NewGetSessionHandler handles GET /sessions/{id}.
func NewGetSessionHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, "failed to load session")
			return
		}
		writeJSON(w, http.StatusOK, live)
	}
}

// NewEndSessionHandler handles POST /sessions/{id}/end.
func NewEndSessionHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.End(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, "failed to end session")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// NewSummaryHandler handles GET /sessions/{id}/summary.
func NewSummaryHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, "failed to load summary")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
