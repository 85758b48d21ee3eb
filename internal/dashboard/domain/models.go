package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/pestdesk/internal/config"
	"github.com/smallbiznis/pestdesk/internal/dashboard/rollup"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

// Snapshot is the aggregate view of the record store at one store version.
type Snapshot struct {
	Version     uint64                       `json:"version"`
	Day         string                       `json:"day"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Summary     rollup.Summary               `json:"summary"`
	Window      rollup.Window                `json:"trailing_window"`
	RecentCount int                          `json:"recent_count"`
	TopUnpaid   []recorddomain.ServiceRecord `json:"top_unpaid"`
	Config      config.DashboardConfig       `json:"config"`
}

type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
