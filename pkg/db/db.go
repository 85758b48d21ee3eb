package db

import (
	"fmt"
	"time"

	obslogger "github.com/smallbiznis/pestdesk/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

// Open connects to the SQLite file at cfg.Path. The pool is capped at one
// connection so every statement runs under the single-writer lock.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:  obslogger.NewGormLogger(log, obslogger.DefaultGormLoggerConfig()),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "pestdesk"
	}
	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(name), otelgorm.WithoutQueryVariables(), otelgorm.WithoutMetrics())); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}
	if cfg.MetricsEnabled {
		if err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          name,
			RefreshInterval: 15,
			StartServer:     false,
		})); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("register metrics plugin: %w", err)
		}
	}

	return conn, nil
}
