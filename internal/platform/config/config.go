package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the privacy service.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres stores when set; empty means the
	// in-memory stores (development and tests).
	DatabaseURL string

	// DownloadTokenKey signs export download tokens.
	DownloadTokenKey string

	// PolicyVersion is the consent policy version stamped on every upsert.
	PolicyVersion string

	CoolingOffPeriod time.Duration
	ExportRetention  time.Duration

	DeletionSweepInterval time.Duration
	CleanupSweepInterval  time.Duration

	// SeedDemoData loads demo users and consents on boot. Development only.
	SeedDemoData bool
}

// Defaults that match the legal requirements; env vars can shorten them for
// staging but production keeps these values.
const (
	DefaultCoolingOffPeriod      = 30 * 24 * time.Hour
	DefaultExportRetention       = 7 * 24 * time.Hour
	DefaultDeletionSweepInterval = 1 * time.Hour
	DefaultCleanupSweepInterval  = 6 * time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                  envOr("PRIVACY_ADDR", ":8080"),
		DatabaseURL:           os.Getenv("PRIVACY_DATABASE_URL"),
		DownloadTokenKey:      envOr("PRIVACY_DOWNLOAD_TOKEN_KEY", "dev-secret-key-change-in-production"),
		PolicyVersion:         envOr("PRIVACY_POLICY_VERSION", "2025-07"),
		CoolingOffPeriod:      DefaultCoolingOffPeriod,
		ExportRetention:       DefaultExportRetention,
		DeletionSweepInterval: DefaultDeletionSweepInterval,
		CleanupSweepInterval:  DefaultCleanupSweepInterval,
	}

	cfg.CoolingOffPeriod = durationOr("PRIVACY_COOLING_OFF_PERIOD", cfg.CoolingOffPeriod)
	cfg.ExportRetention = durationOr("PRIVACY_EXPORT_RETENTION", cfg.ExportRetention)
	cfg.DeletionSweepInterval = durationOr("PRIVACY_DELETION_SWEEP_INTERVAL", cfg.DeletionSweepInterval)
	cfg.CleanupSweepInterval = durationOr("PRIVACY_CLEANUP_SWEEP_INTERVAL", cfg.CleanupSweepInterval)
	cfg.SeedDemoData = os.Getenv("PRIVACY_SEED_DEMO_DATA") == "true"

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
