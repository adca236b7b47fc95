package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"charginguu/backend/services/sessions-service/internal/http/handlers"
	"charginguu/backend/services/sessions-service/internal/invoice"
	"charginguu/backend/services/sessions-service/internal/models"
	"charginguu/backend/services/sessions-service/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	svc := service.NewSessionsService(
		service.NewTariffService(service.Tariff{}, nil),
		service.NewLogSink(logger),
		nil,
		nil,
		invoice.NewIssuer("router-secret", 0),
		service.Options{TickInterval: time.Hour},
		logger,
	)
	t.Cleanup(svc.Close)

	return NewRouter(Routes{
		StartSession:   handlers.NewStartSessionHandler(svc),
		ActiveSessions: handlers.NewActiveSessionsHandler(svc),
		GetSession:     handlers.NewGetSessionHandler(svc),
		EndSession:     handlers.NewEndSessionHandler(svc),
		Summary:        handlers.NewSummaryHandler(svc),
		Rating:         handlers.NewRatingHandler(svc),
		Favorite:       handlers.NewFavoriteHandler(svc),
		Issue:          handlers.NewIssueHandler(svc),
		SessionInvoice: handlers.NewSessionInvoiceHandler(svc),
		Invoice:        handlers.NewInvoiceHandler(svc),
		Health:         handlers.NewHealthHandler(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/sessions", map[string]interface{}{"spot_name": "Brew Lab", "rate_per_minute": 6})
	require.Equal(t, http.StatusCreated, rec.Code)
	var live models.LiveSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &live))
	assert.Equal(t, "Brew Lab", live.SpotName)
	assert.Equal(t, 6.0, live.State.RatePerMinute)
	assert.Equal(t, "₹0.00", live.State.Cost)

	rec = do(t, h, http.MethodGet, "/sessions/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), live.ID)

	rec = do(t, h, http.MethodGet, "/sessions/"+live.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/rating", map[string]int{"stars": 4})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/end", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, models.PaymentStatusSimulated, summary.PaymentStatus)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/end", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/"+live.ID+"/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/rating", map[string]int{"stars": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a rating before submitting.")

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/rating", map[string]interface{}{"stars": 5, "review": "quick"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/favorite", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/favorite", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/issues", map[string]string{"description": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/sessions/"+live.ID+"/issues", map[string]string{"description": "cable frayed"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/"+live.ID+"/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inv struct {
		Token   string       `json:"token"`
		Invoice invoice.View `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, "INV-"+live.ID, inv.Invoice.Number)

	rec = do(t, h, http.MethodGet, "/invoices/"+inv.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), live.ID)

	rec = do(t, h, http.MethodGet, "/invoices/garbage", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownSessionAndBadInput(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/nope/end", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions", map[string]float64{"rate_per_minute": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
