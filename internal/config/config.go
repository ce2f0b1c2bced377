// Package config loads application settings from the environment, with an
// optional .env file layered underneath.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"women-safety/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every runtime setting of the application.
type Config struct {
	DBDriver string
	DBDSN    string

	GeocoderURL    string
	UserAgent      string
	GeocodeTimeout time.Duration
	GeocodeRetries int
	LocationQuery  string

	TrackingInterval time.Duration
	AlarmSound       string
	LogLimit         int

	LogLevel logger.LogLevel
	LogFile  string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DBDriver:         DriverSQLite,
		DBDSN:            "safety.db",
		GeocoderURL:      "https://nominatim.openstreetmap.org",
		UserAgent:        "women_safety_app",
		GeocodeTimeout:   10 * time.Second,
		GeocodeRetries:   0,
		LocationQuery:    "me",
		TrackingInterval: 300 * time.Second,
		AlarmSound:       "alarm.wav",
		LogLimit:         50,
		LogLevel:         logger.InfoLevel,
	}
}

// Load reads the given .env files (".env" when none are given) and then
// applies SAFETY_* environment variables on top of Default. Missing .env
// files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}

	cfg := Default()
	cfg.DBDriver = envString("SAFETY_DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = envString("SAFETY_DB_DSN", cfg.DBDSN)
	cfg.GeocoderURL = envString("SAFETY_GEOCODER_URL", cfg.GeocoderURL)
	cfg.UserAgent = envString("SAFETY_USER_AGENT", cfg.UserAgent)
	cfg.LocationQuery = envString("SAFETY_LOCATION_QUERY", cfg.LocationQuery)
	cfg.AlarmSound = envString("SAFETY_ALARM_SOUND", cfg.AlarmSound)
	cfg.LogFile = envString("SAFETY_LOG_FILE", cfg.LogFile)

	var err error
	if cfg.GeocodeTimeout, err = envDuration("SAFETY_GEOCODE_TIMEOUT", cfg.GeocodeTimeout); err != nil {
		return Config{}, err
	}
	if cfg.TrackingInterval, err = envDuration("SAFETY_TRACKING_INTERVAL", cfg.TrackingInterval); err != nil {
		return Config{}, err
	}
	if cfg.GeocodeRetries, err = envInt("SAFETY_GEOCODE_RETRIES", cfg.GeocodeRetries); err != nil {
		return Config{}, err
	}
	if cfg.LogLimit, err = envInt("SAFETY_LOG_LIMIT", cfg.LogLimit); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = determineLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("database DSN must not be empty")
	}
	if strings.TrimSpace(c.GeocoderURL) == "" {
		return errors.New("geocoder URL must not be empty")
	}
	if c.GeocodeTimeout <= 0 {
		return errors.Errorf("geocode timeout must be positive, got %s", c.GeocodeTimeout)
	}
	if c.TrackingInterval <= 0 {
		return errors.Errorf("tracking interval must be positive, got %s", c.TrackingInterval)
	}
	if c.GeocodeRetries < 0 {
		return errors.Errorf("geocode retries must not be negative, got %d", c.GeocodeRetries)
	}
	if c.LogLimit <= 0 {
		return errors.Errorf("log limit must be positive, got %d", c.LogLimit)
	}
	return nil
}

// determineLogLevel reads SAFETY_LOG_LEVEL, with DEBUG=1 forcing debug.
func determineLogLevel(fallback logger.LogLevel) logger.LogLevel {
	if os.Getenv("DEBUG") == "1" {
		return logger.DebugLevel
	}
	if v, ok := os.LookupEnv("SAFETY_LOG_LEVEL"); ok {
		return logger.ParseLevel(v)
	}
	return fallback
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// envDuration accepts Go duration syntax ("90s", "5m") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return n, nil
}
