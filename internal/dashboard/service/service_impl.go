package service

import (
	"context"
	"sync"

	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/config"
	"github.com/smallbiznis/pestdesk/internal/dashboard/domain"
	"github.com/smallbiznis/pestdesk/internal/dashboard/rollup"
	"github.com/smallbiznis/pestdesk/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Records recorddomain.Service
	Clock   clock.Clock
	Config  *config.DashboardConfigHolder
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	records recorddomain.Service
	clock   clock.Clock
	config  *config.DashboardConfigHolder
	log     *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	cached *cachedSnapshot
}

// cacheKey captures every input a snapshot depends on besides the records.
type cacheKey struct {
	version uint64
	day     string
	config  config.DashboardConfig
}

type cachedSnapshot struct {
	key      cacheKey
	snapshot domain.Snapshot
}

func New(p Params) domain.Service {
	return &Service{
		records: p.Records,
		clock:   p.Clock,
		config:  p.Config,
		log:     p.Log.Named("dashboard.service"),
		metrics: p.Metrics,
	}
}

// Snapshot returns the memoized aggregates while the store version, the
// calendar day and the dashboard config are unchanged.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	now := s.clock.Now().UTC()
	key := cacheKey{
		version: s.records.Version(),
		day:     now.Format(recorddomain.DateLayout),
		config:  s.config.Get(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.cached.key == key {
		s.metrics.SnapshotCacheHit()
		return s.cached.snapshot, nil
	}

	records, err := s.records.LoadAll(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	cfg := key.config
	snapshot := domain.Snapshot{
		Version:     key.version,
		Day:         key.day,
		GeneratedAt: now,
		Summary:     rollup.Summarize(records),
		Window:      rollup.TrailingWindow(records, now, cfg.TrailingWindowDays, cfg.RollingWindow),
		RecentCount: rollup.RecentCount(records, now, cfg.RecentWindowDays),
		TopUnpaid:   rollup.TopUnpaid(records, cfg.TopUnpaidLimit),
		Config:      cfg,
	}

	s.cached = &cachedSnapshot{key: key, snapshot: snapshot}
	s.metrics.SnapshotBuilt()
	s.log.Debug("dashboard snapshot rebuilt",
		zap.Uint64("version", key.version),
		zap.String("day", key.day),
		zap.Int("records", len(records)),
	)
	return snapshot, nil
}
