package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the record store and bootstrap instruments.
type Metrics struct {
	recordsCreated   prometheus.Counter
	recordsUpdated   *prometheus.CounterVec
	storeVersion     prometheus.Gauge
	storageErrors    *prometheus.CounterVec
	bootstrapState   *prometheus.GaugeVec
	snapshotBuilds   prometheus.Counter
	snapshotCacheHit prometheus.Counter
}

// New registers the domain instruments on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		recordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pestdesk_records_created_total",
			Help: "Service records created.",
		}),
		recordsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pestdesk_records_updated_total",
			Help: "Service record updates by resulting status.",
		}, []string{"status"}),
		storeVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pestdesk_store_version",
			Help: "Monotonic record store version.",
		}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pestdesk_storage_errors_total",
			Help: "Record store failures by operation.",
		}, []string{"operation"}),
		bootstrapState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pestdesk_bootstrap_state",
			Help: "Set to 1 for the bootstrap path taken at startup.",
		}, []string{"state"}),
		snapshotBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pestdesk_dashboard_snapshot_builds_total",
			Help: "Dashboard snapshots recomputed from the record store.",
		}),
		snapshotCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pestdesk_dashboard_snapshot_cache_hits_total",
			Help: "Dashboard snapshots served from the memoized copy.",
		}),
	}

	collectors := []prometheus.Collector{
		m.recordsCreated,
		m.recordsUpdated,
		m.storeVersion,
		m.storageErrors,
		m.bootstrapState,
		m.snapshotBuilds,
		m.snapshotCacheHit,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordCreated(version uint64) {
	if m == nil {
		return
	}
	m.recordsCreated.Inc()
	m.storeVersion.Set(float64(version))
}

func (m *Metrics) RecordUpdated(status string, version uint64) {
	if m == nil {
		return
	}
	m.recordsUpdated.WithLabelValues(status).Inc()
	m.storeVersion.Set(float64(version))
}

func (m *Metrics) StorageError(operation string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) BootstrapState(state string) {
	if m == nil {
		return
	}
	m.bootstrapState.Reset()
	m.bootstrapState.WithLabelValues(state).Set(1)
}

func (m *Metrics) SnapshotBuilt() {
	if m == nil {
		return
	}
	m.snapshotBuilds.Inc()
}

func (m *Metrics) SnapshotCacheHit() {
	if m == nil {
		return
	}
	m.snapshotCacheHit.Inc()
}
