package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"charginguu/backend/services/portal-service/internal/models"
	"charginguu/backend/services/portal-service/internal/spot"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestSaveRegistration(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	submitted := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	reg := &models.HostRegistration{
		ID:              "reg-1",
		BusinessName:    "Cafe Aura",
		ContactPerson:   "Asha Rao",
		BusinessType:    "Cafe",
		BusinessAddress: "12 Lake Road",
		PhoneNumber:     "9876543210",
		PhoneVerified:   true,
		Email:           "host@cafeaura.in",
		AccountName:     "Cafe Aura LLP",
		AccountNumber:   "123456789012",
		IFSCCode:        "SBIN0000123",
		AgreedToTerms:   true,
		SubmittedAt:     submitted,
	}

	mock.ExpectExec(`INSERT INTO host_registrations`).
		WithArgs("reg-1", "Cafe Aura", "Asha Rao", "Cafe", "12 Lake Road", "9876543210", true,
			"host@cafeaura.in", "Cafe Aura LLP", "123456789012", "SBIN0000123", true, submitted).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveRegistration(context.Background(), reg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRegistrationError(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectExec(`INSERT INTO host_registrations`).WillReturnError(errors.New("unique violation"))

	err := repo.SaveRegistration(context.Background(), &models.HostRegistration{ID: "reg-1"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSpot(t *testing.T) {
	mock := newMock(t)
	repo := NewSpotRepository(mock)

	form := spot.NewForm()
	form.SpotName = "Cafe Aura"
	form.Location = "12 Lake Road"
	form.PlugTypes = []string{"usb-c"}
	form.PricingPerMinute = 5
	form.OperatingHours = map[string]spot.Hours{"monday": {Open: "09:00", Close: "21:00"}}
	form.Photos = []spot.Photo{{ID: "p1", URL: "https://img.example/p1.jpg"}}
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO charging_spots`).
		WithArgs("spot-1", "Cafe Aura", "12 Lake Road", form.Latitude, form.Longitude, []string{"usb-c"}, 1, 5.0,
			[]byte(`{"monday":{"open":"09:00","close":"21:00","closed":false}}`),
			form.Amenities,
			[]byte(`[{"id":"p1","url":"https://img.example/p1.jpg"}]`),
			"", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveSpot(context.Background(), &models.SpotListing{ID: "spot-1", Form: *form, CreatedAt: created}))
	require.NoError(t, mock.ExpectationsWereMet())
}
