package bootstrap

import (
	"context"
	"time"

	"github.com/smallbiznis/pestdesk/internal/config"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("bootstrap",
	fx.Provide(
		newConfig,
		NewPolicy,
		provideStore,
		NewInspector,
	),
)

func newConfig(cfg config.Config) Config {
	return Config{
		ActivePath:     cfg.DBPath,
		TemplatePath:   cfg.DBTemplatePath,
		Driver:         cfg.DBDriver,
		BusyTimeout:    time.Duration(cfg.DBBusyTimeoutMs) * time.Millisecond,
		MetricsEnabled: cfg.DBMetricsEnabled,
		SeedDemoData:   cfg.SeedDemoData,
	}
}

func provideStore(lc fx.Lifecycle, policy *Policy) (*db.Handle, *Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	handle, outcome := policy.Run(ctx)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return handle.Close()
		},
	})
	return handle, outcome
}
