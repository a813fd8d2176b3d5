package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"2", "4"}, cfg.App.Booking.ProjectorRoomIDs)
	assert.Equal(t, 2, cfg.App.Booking.FreeCancelQuota)
	assert.Equal(t, "direct", cfg.App.Notification.Mode)
	assert.Equal(t, "disable", cfg.DB.Postgres.Write.SSLMode)
	assert.Equal(t, "booking.notifications", cfg.Kafka.NotificationTopic)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9000\nAPP_BOOKING_PROJECTOR_FEE=35\n"), 0o600))

	t.Setenv("SERVER_PORT", "7000")

	cfg, err := config.Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.InDelta(t, 35.0, cfg.App.Booking.ProjectorFee, 0.001)

	// godotenv sets variables on the process, clean up what the file introduced
	t.Cleanup(func() { _ = os.Unsetenv("APP_BOOKING_PROJECTOR_FEE") })
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "failed to process environment")
}
