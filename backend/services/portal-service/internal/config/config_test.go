package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libconfig "charginguu/backend/libs/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(libconfig.PathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8083", cfg.HTTPAddress())
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 3, cfg.OTP.Burst)
	assert.Equal(t, "John Doe", cfg.Profile.Name)
	assert.Empty(t, cfg.SMS.GatewayURL)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("otp:\n  ttl: 2m\nsms:\n  gatewayURL: https://sms.example\n"), 0o600))
	t.Setenv(libconfig.PathEnv, path)
	t.Setenv("PORTAL_HTTP_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddress())
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "https://sms.example", cfg.SMS.GatewayURL)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv(libconfig.PathEnv, "")
	t.Setenv("PORTAL_OTP_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
}
