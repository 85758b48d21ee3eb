package db

import (
	"fmt"
	"strings"

	puresqlite "github.com/glebarez/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect selects the SQLite driver for cfg.Path. The cgo driver is the
// default; the pure Go driver serves CGO_ENABLED=0 builds and tests.
func Dialect(cfg Config) (gorm.Dialector, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverCGO:
		return gormsqlite.Open(fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", path, cfg.busyTimeoutMs())), nil
	case DriverPure:
		return puresqlite.Open(fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, cfg.busyTimeoutMs())), nil
	default:
		return nil, fmt.Errorf("unsupported %s driver", cfg.Driver)
	}
}
