package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetReturnsCardAndMenu(t *testing.T) {
	svc := NewService(User{Name: "John Doe", Email: "john.doe@example.com"}, zap.NewNop())
	p := svc.Get(context.Background())

	assert.Equal(t, "John Doe", p.User.Name)
	require.Len(t, p.Menu, 6)
	assert.Equal(t, "My Bookings", p.Menu[0].Label)
	assert.Equal(t, "About Charginguu", p.Menu[5].Label)

	p.Menu[0].Label = "changed"
	assert.Equal(t, "My Bookings", Menu[0].Label)
}

func TestLogoutLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(User{Email: "john.doe@example.com"}, zap.New(core))

	svc.Logout(context.Background())
	require.Equal(t, 1, logs.FilterMessage("user logged out").Len())
}
