package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DashboardConfig tunes the aggregation windows and list sizes served by the dashboard.
type DashboardConfig struct {
	TrailingWindowDays int `mapstructure:"trailing_window_days" json:"trailing_window_days"`
	RollingWindow      int `mapstructure:"rolling_window" json:"rolling_window"`
	RecentWindowDays   int `mapstructure:"recent_window_days" json:"recent_window_days"`
	TopUnpaidLimit     int `mapstructure:"top_unpaid_limit" json:"top_unpaid_limit"`
	PageSize           int `mapstructure:"page_size" json:"page_size"`
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		TrailingWindowDays: 30,
		RollingWindow:      7,
		RecentWindowDays:   7,
		TopUnpaidLimit:     5,
		PageSize:           10,
	}
}

type DashboardConfigHolder struct {
	current atomic.Value // holds DashboardConfig
}

type dashboardFile struct {
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// NewStaticDashboardConfigHolder returns a holder that never reloads.
func NewStaticDashboardConfigHolder(cfg DashboardConfig) *DashboardConfigHolder {
	holder := &DashboardConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewDashboardConfigHolder(cfg Config, log *zap.Logger) (*DashboardConfigHolder, error) {
	log = log.Named("config.dashboard")
	v := viper.New()

	v.SetConfigName("dashboard")
	v.SetConfigType("yml")
	if cfg.ConfigDir != "" {
		v.AddConfigPath(cfg.ConfigDir)
	} else {
		v.AddConfigPath("/etc/pestdesk")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PESTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDashboardConfig()
	v.SetDefault("dashboard.trailing_window_days", defaults.TrailingWindowDays)
	v.SetDefault("dashboard.rolling_window", defaults.RollingWindow)
	v.SetDefault("dashboard.recent_window_days", defaults.RecentWindowDays)
	v.SetDefault("dashboard.top_unpaid_limit", defaults.TopUnpaidLimit)
	v.SetDefault("dashboard.page_size", defaults.PageSize)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	current, err := decodeDashboardConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticDashboardConfigHolder(current)
	if !found {
		log.Debug("dashboard config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Warn("dashboard config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		log.Info("dashboard config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *DashboardConfigHolder) Get() DashboardConfig {
	return h.current.Load().(DashboardConfig)
}

// reload swaps in the config currently held by v. An invalid file leaves
// the previous config in place.
func (h *DashboardConfigHolder) reload(v *viper.Viper) error {
	updated, err := decodeDashboardConfig(v)
	if err != nil {
		return err
	}
	h.current.Store(updated)
	return nil
}

func decodeDashboardConfig(v *viper.Viper) (DashboardConfig, error) {
	var file dashboardFile
	if err := v.Unmarshal(&file); err != nil {
		return DashboardConfig{}, err
	}
	if err := validateDashboardConfig(file.Dashboard); err != nil {
		return DashboardConfig{}, err
	}
	return file.Dashboard, nil
}

func validateDashboardConfig(cfg DashboardConfig) error {
	if cfg.TrailingWindowDays <= 0 {
		return errors.New("dashboard.trailing_window_days must be positive")
	}
	if cfg.RollingWindow <= 0 {
		return errors.New("dashboard.rolling_window must be positive")
	}
	if cfg.RecentWindowDays <= 0 {
		return errors.New("dashboard.recent_window_days must be positive")
	}
	if cfg.TopUnpaidLimit <= 0 {
		return errors.New("dashboard.top_unpaid_limit must be positive")
	}
	if cfg.PageSize <= 0 {
		return errors.New("dashboard.page_size must be positive")
	}
	return nil
}
