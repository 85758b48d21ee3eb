package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/smallbiznis/pestdesk/pkg/db"
)

// Inspector answers questions about the active store for status reporting.
type Inspector struct {
	handle  *db.Handle
	outcome *Outcome
	repo    recorddomain.Repository
}

func NewInspector(handle *db.Handle, outcome *Outcome, repo recorddomain.Repository) *Inspector {
	return &Inspector{handle: handle, outcome: outcome, repo: repo}
}

// Exists reports whether the active store file is present right now.
func (i *Inspector) Exists() bool {
	return fileExists(i.handle.Path())
}

func (i *Inspector) RecordCount(ctx context.Context) (int64, error) {
	conn, err := i.handle.Conn()
	if err != nil {
		return 0, err
	}
	total, err := i.repo.Count(ctx, conn, recorddomain.ListRecordFilter{})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", recorddomain.ErrStorageUnavailable, err)
	}
	return total, nil
}

type Report struct {
	Path        string   `json:"path"`
	Found       bool     `json:"found"`
	State       State    `json:"state"`
	RecordCount int64    `json:"record_count"`
	SizeBytes   int64    `json:"size_bytes"`
	Size        string   `json:"size"`
	DemoSeeded  int      `json:"demo_seeded"`
	Warnings    []string `json:"warnings"`
	Degraded    bool     `json:"degraded"`
	Error       string   `json:"error,omitempty"`
}

func (i *Inspector) Report(ctx context.Context) Report {
	report := Report{
		Path:     i.handle.Path(),
		Found:    i.Exists(),
		State:    i.outcome.State,
		Warnings: append([]string{}, i.outcome.Warnings...),
	}
	report.DemoSeeded = i.outcome.DemoSeeded

	if info, err := os.Stat(report.Path); err == nil {
		report.SizeBytes = info.Size()
		report.Size = humanize.Bytes(uint64(info.Size()))
	}

	if err := i.handle.Err(); err != nil {
		report.Degraded = true
		report.Error = err.Error()
		return report
	}

	count, err := i.RecordCount(ctx)
	if err != nil {
		report.Degraded = true
		report.Error = err.Error()
		return report
	}
	report.RecordCount = count
	return report
}

// Lines renders the report as short human-readable lines.
func (r Report) Lines() []string {
	lines := []string{}
	if r.Found {
		lines = append(lines, fmt.Sprintf("database found: %s", r.Path))
	} else {
		lines = append(lines, fmt.Sprintf("database not found: %s", r.Path))
	}
	lines = append(lines, fmt.Sprintf("bootstrap: %s", r.State))
	if r.Degraded {
		lines = append(lines, fmt.Sprintf("storage unavailable: %s", r.Error))
	} else {
		lines = append(lines, fmt.Sprintf("records: %s", humanize.Comma(r.RecordCount)))
	}
	if r.Size != "" {
		lines = append(lines, fmt.Sprintf("size: %s", r.Size))
	}
	for _, warning := range r.Warnings {
		lines = append(lines, fmt.Sprintf("warning: %s", warning))
	}
	return lines
}
