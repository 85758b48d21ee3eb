package observability

import (
	"testing"

	"github.com/smallbiznis/pestdesk/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEPLOYMENT_ENV", "")

	cfg := LoadConfig(config.Config{AppName: "pestdesk", Environment: "production", OTLPEndpoint: "collector:4317"})
	if cfg.OtelEnabled {
		t.Fatalf("expected tracing disabled by default")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info level, got %q", cfg.LogLevel)
	}
	if cfg.OtelExporterEndpoint != "collector:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.OtelExporterEndpoint)
	}
	if cfg.Debug() {
		t.Fatalf("production at info level should not be debug")
	}
}

func TestDebugFollowsEnvironmentAndLevel(t *testing.T) {
	if !(Config{Environment: "development"}).Debug() {
		t.Fatalf("development should be debug")
	}
	if !(Config{Environment: "production", LogLevel: "debug"}).Debug() {
		t.Fatalf("debug level should be debug")
	}
}
