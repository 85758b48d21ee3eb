package db

import "time"

const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

type Config struct {
	Driver         string
	Path           string
	BusyTimeout    time.Duration
	MetricsEnabled bool
	Name           string
}

func (c Config) busyTimeoutMs() int64 {
	if c.BusyTimeout <= 0 {
		return 5000
	}
	return c.BusyTimeout.Milliseconds()
}
