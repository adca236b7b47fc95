package handlers

import (
	"net/http"

	"charginguu/backend/services/sessions-service/internal/invoice"
	"charginguu/backend/services/sessions-service/internal/service"
)

// NewSessionInvoiceHandler handles GET /sessions/{id}/invoice.
func NewSessionInvoiceHandler(svc *service.SessionsService) http.HandlerFunc {
	type response struct {
		Token   string       `json:"token"`
		Invoice invoice.View `json:"invoice"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, view, err := svc.Invoice(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err, "failed to issue invoice")
			return
		}
		writeJSON(w, http.StatusOK, response{Token: token, Invoice: view})
	}
}

// NewInvoiceHandler handles GET /invoices/{token}.
func NewInvoiceHandler(svc *service.SessionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ReadInvoice(r.PathValue("token"))
		if err != nil {
			writeServiceError(w, err, "failed to read invoice")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
