package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"charginguu/backend/services/portal-service/internal/http/handlers"
	"charginguu/backend/services/portal-service/internal/models"
	"charginguu/backend/services/portal-service/internal/otp"
	"charginguu/backend/services/portal-service/internal/profile"
	"charginguu/backend/services/portal-service/internal/service"
	"charginguu/backend/services/portal-service/internal/spot"
)

type codeCapture struct {
	last string
}

func (c *codeCapture) Send(_ context.Context, _, code string) error {
	c.last = code
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *codeCapture) {
	t.Helper()
	logger := zap.NewNop()
	capture := &codeCapture{}
	codes := otp.NewService(otp.NewMemoryStore(), otp.NewBcryptHasher(bcrypt.MinCost), otp.NewLimiter(time.Hour, 3), capture, 0, logger)
	sink := service.NewLogSink(logger)
	regs := service.NewRegistrationService(sink, codes, logger)
	spots := service.NewSpotService(sink, spot.NewSimulatedLocator(), logger)
	prof := profile.NewService(profile.User{Name: "John Doe", Email: "john.doe@example.com"}, logger)

	return NewRouter(Routes{
		CreateRegistration: handlers.NewCreateRegistrationHandler(regs),
		GetRegistration:    handlers.NewGetRegistrationHandler(regs),
		UpdateRegistration: handlers.NewUpdateRegistrationHandler(regs),
		NextStep:           handlers.NewRegistrationStepHandler(regs.Next),
		PreviousStep:       handlers.NewRegistrationStepHandler(regs.Back),
		SubmitRegistration: handlers.NewSubmitRegistrationHandler(regs),
		SendCode:           handlers.NewSendCodeHandler(regs),
		VerifyCode:         handlers.NewVerifyCodeHandler(regs),
		Catalog:            handlers.NewCatalogHandler(spots),
		ValidateSpot:       handlers.NewValidateSpotHandler(spots),
		CreateSpot:         handlers.NewCreateSpotHandler(spots),
		LocateSpot:         handlers.NewLocateSpotHandler(spots),
		Profile:            handlers.NewProfileHandler(prof),
		Logout:             handlers.NewLogoutHandler(prof),
		Health:             handlers.NewHealthHandler(),
	}), capture
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.RegistrationView {
	t.Helper()
	var v models.RegistrationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRegistrationOverHTTP(t *testing.T) {
	h, capture := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/registrations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeView(t, rec).ID
	base := "/registrations/" + id

	rec = do(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Business name is required")

	rec = do(t, h, http.MethodPatch, base, map[string]string{
		"businessName":    "Cafe Aura",
		"contactPerson":   "Asha Rao",
		"businessType":    "Cafe",
		"businessAddress": "12 Lake Road",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Errors)

	rec = do(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeView(t, rec).Step)

	rec = do(t, h, http.MethodPost, base+"/otp", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPatch, base, map[string]string{"phoneNumber": "9876543210", "email": "host@cafeaura.in"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/otp", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decodeView(t, rec).CodeSent)
	require.NotEmpty(t, capture.last)

	rec = do(t, h, http.MethodPost, base+"/otp/verify", map[string]string{"code": capture.last})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).PhoneVerified)

	rec = do(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPatch, base, map[string]interface{}{
		"accountName":   "Cafe Aura LLP",
		"accountNumber": "123456789012",
		"ifscCode":      "sbin0000123",
		"agreedToTerms": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "SBIN0000123")

	rec = do(t, h, http.MethodPost, base+"/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).Submitted)
}

func TestRegistrationErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/registrations/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/registrations/missing", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, PATCH", rec.Header().Get("Allow"))

	rec = do(t, h, http.MethodPost, "/registrations", nil)
	id := decodeView(t, rec).ID

	rec = do(t, h, http.MethodPatch, "/registrations/"+id, map[string]string{"nickname": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/registrations/"+id, map[string]string{"agreedToTerms": "yes", "businessName": "Cafe Aura"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var failed struct {
		Error        string                  `json:"error"`
		Registration models.RegistrationView `json:"registration"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.Contains(t, failed.Error, "agreedToTerms")
	assert.Empty(t, failed.Registration.Fields.BusinessName)

	rec = do(t, h, http.MethodPost, "/registrations/"+id+"/otp/verify", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/registrations/"+id+"/otp/verify", map[string]string{"code": "123456"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyCodeLockoutOverHTTP(t *testing.T) {
	h, capture := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/registrations", nil)
	base := "/registrations/" + decodeView(t, rec).ID
	rec = do(t, h, http.MethodPatch, base, map[string]string{"phoneNumber": "9876543210"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, base+"/otp", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	wrong := "000000"
	if capture.last == wrong {
		wrong = "111111"
	}
	for i := 1; i < otp.MaxVerifyAttempts; i++ {
		rec = do(t, h, http.MethodPost, base+"/otp/verify", map[string]string{"code": wrong})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
	rec = do(t, h, http.MethodPost, base+"/otp/verify", map[string]string{"code": wrong})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/otp/verify", map[string]string{"code": capture.last})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestSpotsOverHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wall-outlet")

	rec = do(t, h, http.MethodPost, "/spots/validate", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)

	rec = do(t, h, http.MethodPost, "/spots/locate", map[string]interface{}{"spotName": "Cafe Aura"})
	require.Equal(t, http.StatusOK, rec.Code)
	var located spot.Form
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &located))
	assert.Equal(t, "Cafe Aura", located.SpotName)
	assert.Equal(t, "123 Main Street, Business District, City - 560001", located.Location)

	located.PlugTypes = []string{"usb-c", "lightning"}
	located.PricingPerMinute = 3
	located.OperatingHours["saturday"] = spot.Hours{Open: "10:00", Close: "18:00"}

	rec = do(t, h, http.MethodPost, "/spots", located)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Charging spot added successfully!")

	rec = do(t, h, http.MethodPost, "/spots", map[string]interface{}{"spotName": "x"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Location is required")
}

func TestProfileOverHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invite Friends & Earn")

	rec = do(t, h, http.MethodPost, "/profile/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	h, _ := newTestRouter(t)
	srv := NewServer(ln.Addr().String(), h, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
