package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"women-safety/internal/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SAFETY_DB_DRIVER", "SAFETY_DB_DSN", "SAFETY_GEOCODER_URL", "SAFETY_USER_AGENT",
		"SAFETY_LOCATION_QUERY", "SAFETY_ALARM_SOUND", "SAFETY_LOG_FILE", "SAFETY_GEOCODE_TIMEOUT",
		"SAFETY_TRACKING_INTERVAL", "SAFETY_GEOCODE_RETRIES", "SAFETY_LOG_LIMIT", "SAFETY_LOG_LEVEL", "DEBUG",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 300*time.Second, cfg.TrackingInterval)
	assert.Equal(t, 50, cfg.LogLimit)
	assert.Equal(t, "me", cfg.LocationQuery)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFETY_DB_DRIVER", "postgres")
	t.Setenv("SAFETY_DB_DSN", "postgres://localhost/safety?sslmode=disable")
	t.Setenv("SAFETY_TRACKING_INTERVAL", "90")
	t.Setenv("SAFETY_GEOCODE_TIMEOUT", "2500ms")
	t.Setenv("SAFETY_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 90*time.Second, cfg.TrackingInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.GeocodeTimeout)
	assert.Equal(t, logger.WarnLevel, cfg.LogLevel)
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SAFETY_ALARM_SOUND=/tmp/siren.wav\nSAFETY_LOG_LIMIT=20\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SAFETY_ALARM_SOUND")
		os.Unsetenv("SAFETY_LOG_LIMIT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/siren.wav", cfg.AlarmSound)
	assert.Equal(t, 20, cfg.LogLimit)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFETY_LOG_LEVEL", "error")
	t.Setenv("DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, logger.DebugLevel, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFETY_TRACKING_INTERVAL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SAFETY_DB_DRIVER", "oracle")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.TrackingInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DBDSN = " "
	assert.Error(t, cfg.Validate())
}
