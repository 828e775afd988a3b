package config

import "os"

// Server captures process-level configuration. Values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Server struct {
	Addr string

	// DatabaseURL is the Postgres connection string. Empty means run on the
	// in-memory stores (development and tests only).
	DatabaseURL string

	// RedisURL enables the retention policy cache when set.
	RedisURL string

	// CleanupSchedule is the cron expression driving the retention sweeper.
	// Empty disables scheduled cleanup; the manual endpoint still works.
	CleanupSchedule string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CLINICORE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	schedule, ok := os.LookupEnv("CLINICORE_CLEANUP_SCHEDULE")
	if !ok {
		// Daily, off-peak.
		schedule = "0 3 * * *"
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CleanupSchedule: schedule,
	}
}
