package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/observability/metrics"
	"github.com/smallbiznis/pestdesk/internal/seed"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// State is the path the startup policy took to obtain a store.
type State string

const (
	StateExisting           State = "existing"
	StateSeededFromTemplate State = "seeded_from_template"
	StateFresh              State = "fresh"
)

var ErrSeedCopyFailed = errors.New("seed_copy_failed")

type Config struct {
	ActivePath     string
	TemplatePath   string
	Driver         string
	BusyTimeout    time.Duration
	MetricsEnabled bool
	SeedDemoData   bool
}

// Outcome records what the policy found and did at startup.
type Outcome struct {
	ActivePath    string   `json:"active_path"`
	TemplatePath  string   `json:"template_path"`
	ActiveFound   bool     `json:"active_found"`
	TemplateFound bool     `json:"template_found"`
	State         State    `json:"state"`
	DemoSeeded    int      `json:"demo_seeded"`
	Warnings      []string `json:"warnings"`
	Err           error    `json:"-"`
}

func (o *Outcome) Degraded() bool {
	return o != nil && o.Err != nil
}

type PolicyParams struct {
	fx.In

	Config  Config
	Repo    recorddomain.Repository
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Policy struct {
	cfg     Config
	repo    recorddomain.Repository
	root    *zap.Logger
	log     *zap.Logger
	clock   clock.Clock
	metrics *metrics.Metrics
	copy    func(src, dst string) error
}

func NewPolicy(p PolicyParams) *Policy {
	return &Policy{
		cfg:     p.Config,
		repo:    p.Repo,
		root:    p.Log,
		log:     p.Log.Named("bootstrap"),
		clock:   p.Clock,
		metrics: p.Metrics,
		copy:    copyFile,
	}
}

// Run decides once how to obtain the active store:
//  1. the active file exists: open it
//  2. only the template exists: copy it into place, then open
//  3. neither exists, or the copy failed: create an empty store
//
// Run never fails. Open or initialization errors yield an unavailable
// handle and a degraded outcome.
func (p *Policy) Run(ctx context.Context) (*db.Handle, *Outcome) {
	out := &Outcome{
		ActivePath:   p.cfg.ActivePath,
		TemplatePath: p.cfg.TemplatePath,
		Warnings:     []string{},
	}

	out.ActiveFound = fileExists(p.cfg.ActivePath)
	out.TemplateFound = p.cfg.TemplatePath != "" && fileExists(p.cfg.TemplatePath)

	switch {
	case out.ActiveFound:
		out.State = StateExisting
	case out.TemplateFound:
		if err := p.copy(p.cfg.TemplatePath, p.cfg.ActivePath); err != nil {
			warn := fmt.Errorf("%w: %w", ErrSeedCopyFailed, err)
			out.Warnings = append(out.Warnings, warn.Error())
			p.log.Warn("template copy failed, starting with an empty store",
				zap.String("template", p.cfg.TemplatePath),
				zap.String("active", p.cfg.ActivePath),
				zap.Error(warn),
			)
			out.State = StateFresh
		} else {
			out.State = StateSeededFromTemplate
		}
	default:
		out.State = StateFresh
	}
	p.metrics.BootstrapState(string(out.State))

	handle := p.open(ctx, out)
	p.log.Info("record store bootstrapped",
		zap.String("state", string(out.State)),
		zap.String("path", p.cfg.ActivePath),
		zap.Bool("degraded", out.Degraded()),
		zap.Int("demo_seeded", out.DemoSeeded),
	)
	return handle, out
}

func (p *Policy) open(ctx context.Context, out *Outcome) *db.Handle {
	if out.State == StateFresh {
		if dir := filepath.Dir(p.cfg.ActivePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return p.degrade(out, fmt.Errorf("create data directory: %w", err))
			}
		}
	}

	conn, err := db.Open(db.Config{
		Driver:         p.cfg.Driver,
		Path:           p.cfg.ActivePath,
		BusyTimeout:    p.cfg.BusyTimeout,
		MetricsEnabled: p.cfg.MetricsEnabled,
	}, p.root)
	if err != nil {
		return p.degrade(out, err)
	}
	handle := db.NewHandle(p.cfg.ActivePath, conn)

	if err := p.repo.Initialize(ctx, conn); err != nil {
		_ = handle.Close()
		return p.degrade(out, fmt.Errorf("initialize schema: %w", err))
	}

	if out.State == StateFresh && p.cfg.SeedDemoData {
		inserted, err := seed.EnsureDemoData(ctx, conn, p.repo, p.clock.Now())
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("demo data: %v", err))
			p.log.Warn("demo data seeding failed", zap.Error(err))
		}
		out.DemoSeeded = inserted
	}
	return handle
}

func (p *Policy) degrade(out *Outcome, cause error) *db.Handle {
	handle := db.Unavailable(p.cfg.ActivePath, cause)
	out.Err = handle.Err()
	p.metrics.StorageError("bootstrap")
	p.log.Error("record store unavailable, continuing in degraded mode",
		zap.String("path", p.cfg.ActivePath),
		zap.Error(cause),
	)
	return handle
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// copyFile writes src to a temp file beside dst and renames it into place,
// so dst never holds a partial copy.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pestdesk-seed-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
