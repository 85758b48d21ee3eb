package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/pestdesk/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM customers":                   "SELECT",
		"  insert into customers (name) values (?)": "INSERT",
		"UPDATE customers SET paid = 1":             "UPDATE",
		"WITH x AS (SELECT 1) SELECT * FROM x":      "SELECT",
		"PRAGMA journal_mode=WAL":                   "PRAGMA",
		"":                                          "UNKNOWN",
	}
	for sql, want := range cases {
		if got := operationFromSQL(sql); got != want {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", sql, got, want)
		}
	}
}

func TestGormLoggerTraceLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        time.Millisecond,
		IgnoreRecordNotFound: true,
	})

	fc := func() (string, int64) { return "SELECT * FROM customers", 3 }
	ctx := obscontext.WithRequestID(context.Background(), "req-1")

	l.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)
	if logs.Len() != 0 {
		t.Fatalf("expected record-not-found to be ignored, got %d entries", logs.Len())
	}

	l.Trace(ctx, time.Now(), fc, errors.New("disk I/O error"))
	l.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", got)
	}
}

func TestGinMiddlewarePropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "abc-123" {
		t.Fatalf("expected request id abc-123 in context, got %q", seen)
	}
	if rec.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected X-Request-Id echoed, got %q", rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}
}
