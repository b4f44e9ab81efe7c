package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" required:"true"`
	APIKey      string `envconfig:"API_KEY"`

	// Office geofence. Defaults are the original deployment's coordinates.
	OfficeLat     float64 `envconfig:"OFFICE_LAT" default:"17.43542607603663"`
	OfficeLng     float64 `envconfig:"OFFICE_LNG" default:"78.45767098753461"`
	OfficeRadiusM float64 `envconfig:"OFFICE_RADIUS_M" default:"100"`

	// Live tracking.
	PathLimit        int           `envconfig:"PATH_LIMIT" default:"500"`
	LivePollInterval time.Duration `envconfig:"LIVE_POLL_INTERVAL" default:"5s"`

	// Attendance.
	SessionCacheTTL time.Duration `envconfig:"SESSION_CACHE_TTL" default:"60s"`
	StatsWindowMin  int           `envconfig:"STATS_WINDOW_MIN" default:"30"`

	// Reverse geocoding.
	GeocodeURL    string `envconfig:"GEOCODE_URL" default:"https://api.opencagedata.com/geocode/v1/json"`
	GeocodeAPIKey string `envconfig:"GEOCODE_API_KEY"`

	// Logging.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogPath  string `envconfig:"LOG_PATH"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}
	return &cfg, nil
}
