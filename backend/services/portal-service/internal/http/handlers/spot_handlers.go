package handlers

import (
	"net/http"

	"charginguu/backend/services/portal-service/internal/service"
	"charginguu/backend/services/portal-service/internal/spot"
)

// NewCatalogHandler handles GET /catalog.
func NewCatalogHandler(svc *service.SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Catalog())
	}
}

// NewValidateSpotHandler handles POST /spots/validate.
func NewValidateSpotHandler(svc *service.SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := spot.NewForm()
		if err := decodeJSON(r, form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		errs := svc.Validate(*form)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"valid":  len(errs) == 0,
			"errors": errs,
		})
	}
}

// NewCreateSpotHandler handles POST /spots.
func NewCreateSpotHandler(svc *service.SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := spot.NewForm()
		if err := decodeJSON(r, form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		listing, err := svc.Create(r.Context(), *form)
		if err != nil {
			writeServiceError(w, err, nil, "failed to add charging spot")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Charging spot added successfully!",
			"spot":    listing,
		})
	}
}

// NewLocateSpotHandler handles POST /spots/locate.
func NewLocateSpotHandler(svc *service.SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := spot.NewForm()
		if err := decodeJSON(r, form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		located, err := svc.Locate(r.Context(), *form)
		if err != nil {
			writeServiceError(w, err, nil, "failed to resolve location")
			return
		}
		writeJSON(w, http.StatusOK, located)
	}
}
