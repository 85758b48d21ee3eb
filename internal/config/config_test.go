package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("SEED_DEMO_DATA", "")

	cfg := Load()
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "data/pest_control.db", cfg.DBPath)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, int64(5000), cfg.DBBusyTimeoutMs)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/active.db")
	t.Setenv("DATABASE_DRIVER", "SQLITE")
	t.Setenv("SEED_DEMO_DATA", "yes")
	t.Setenv("DATABASE_BUSY_TIMEOUT_MS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "/tmp/active.db", cfg.DBPath)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, int64(5000), cfg.DBBusyTimeoutMs)
}

func TestDashboardConfigDefaultsWithoutFile(t *testing.T) {
	holder, err := NewDashboardConfigHolder(Config{ConfigDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultDashboardConfig(), holder.Get())
}

func TestDashboardConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	body := "dashboard:\n  trailing_window_days: 14\n  page_size: 25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard.yml"), []byte(body), 0o644))

	holder, err := NewDashboardConfigHolder(Config{ConfigDir: dir}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, 14, got.TrailingWindowDays)
	assert.Equal(t, 25, got.PageSize)
	assert.Equal(t, 7, got.RollingWindow)
	assert.Equal(t, 5, got.TopUnpaidLimit)
}

func TestDashboardConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	body := "dashboard:\n  rolling_window: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard.yml"), []byte(body), 0o644))

	_, err := NewDashboardConfigHolder(Config{ConfigDir: dir}, zap.NewNop())
	require.Error(t, err)
}

func TestDashboardConfigReloadKeepsLastGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yml")
	holder := NewStaticDashboardConfigHolder(DefaultDashboardConfig())

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("dashboard.trailing_window_days", 30)
	v.SetDefault("dashboard.rolling_window", 7)
	v.SetDefault("dashboard.recent_window_days", 7)
	v.SetDefault("dashboard.top_unpaid_limit", 5)
	v.SetDefault("dashboard.page_size", 10)

	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  page_size: 50\n"), 0o644))
	require.NoError(t, v.ReadInConfig())
	require.NoError(t, holder.reload(v))
	assert.Equal(t, 50, holder.Get().PageSize)

	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  page_size: -1\n"), 0o644))
	require.NoError(t, v.ReadInConfig())
	assert.Error(t, holder.reload(v))
	assert.Equal(t, 50, holder.Get().PageSize)
}
