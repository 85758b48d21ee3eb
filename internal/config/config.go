package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBDriver         string
	DBPath           string
	DBTemplatePath   string
	DBBusyTimeoutMs  int64
	DBMetricsEnabled bool
	SeedDemoData     bool

	// ConfigDir, when set, is the only directory searched for dashboard.yml.
	ConfigDir string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:          getenv("APP_SERVICE", "pestdesk"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      getenv("ENVIRONMENT", "development"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBDriver:         strings.ToLower(getenv("DATABASE_DRIVER", "sqlite3")),
		DBPath:           strings.TrimSpace(getenv("DATABASE_PATH", "data/pest_control.db")),
		DBTemplatePath:   strings.TrimSpace(getenv("DATABASE_TEMPLATE_PATH", "data/pest_control_demo.db")),
		DBBusyTimeoutMs:  getenvInt64("DATABASE_BUSY_TIMEOUT_MS", 5000),
		DBMetricsEnabled: getenvBool("DATABASE_METRICS_ENABLED", false),
		SeedDemoData:     getenvBool("SEED_DEMO_DATA", false),
		ConfigDir:        strings.TrimSpace(getenv("CONFIG_DIR", "")),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
