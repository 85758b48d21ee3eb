package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/internal/bootstrap"
	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/config"
	dashboardservice "github.com/smallbiznis/pestdesk/internal/dashboard/service"
	"github.com/smallbiznis/pestdesk/internal/export"
	"github.com/smallbiznis/pestdesk/internal/observability"
	obsmetrics "github.com/smallbiznis/pestdesk/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/repository"
	recordservice "github.com/smallbiznis/pestdesk/internal/servicerecord/service"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, handle *db.Handle, outcome *bootstrap.Outcome) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(testNow)
	repo := repository.Provide()
	holder := config.NewStaticDashboardConfigHolder(config.DefaultDashboardConfig())

	httpMetrics, err := obsmetrics.NewHTTPMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	records := recordservice.New(recordservice.Params{Handle: handle, Log: log, Clock: clk, Repo: repo})
	dashboard := dashboardservice.New(dashboardservice.Params{Records: records, Clock: clk, Config: holder, Log: log})

	return NewServer(ServerParams{
		Gin:             NewEngine(observability.Config{}, httpMetrics),
		Log:             log,
		Clock:           clk,
		Handle:          handle,
		RecordSvc:       records,
		DashboardSvc:    dashboard,
		Inspector:       bootstrap.NewInspector(handle, outcome, repo),
		DashboardConfig: holder,
	})
}

func newStoreServer(t *testing.T) *Server {
	t.Helper()
	policy := bootstrap.NewPolicy(bootstrap.PolicyParams{
		Config: bootstrap.Config{
			ActivePath: filepath.Join(t.TempDir(), "active.db"),
			Driver:     db.DriverPure,
		},
		Repo:  repository.Provide(),
		Log:   zaptest.NewLogger(t),
		Clock: clock.NewFakeClock(testNow),
	})
	handle, outcome := policy.Run(context.Background())
	require.False(t, outcome.Degraded())
	t.Cleanup(func() { _ = handle.Close() })
	return newTestServer(t, handle, outcome)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

type dashboardBody struct {
	Version uint64 `json:"version"`
	Summary struct {
		TotalCount     int             `json:"total_count"`
		PaidAmount     decimal.Decimal `json:"paid_amount"`
		PendingAmount  decimal.Decimal `json:"pending_amount"`
		CompletedCount int             `json:"completed_count"`
	} `json:"summary"`
}

func ashaRao() map[string]any {
	return map[string]any{
		"name":           "Asha Rao",
		"phone":          "+91 98765 43210",
		"address":        "Plot 4, Bandra, Mumbai",
		"service":        "Termite Treatment",
		"visit_date":     "2024-09-01",
		"amount":         1200,
		"paid":           false,
		"payment_method": "Cash",
		"service_status": "Ongoing",
	}
}

func TestCreateUpdateReflectsInDashboard(t *testing.T) {
	s := newStoreServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/records", ashaRao())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created recorddomain.ServiceRecord
	decodeData(t, rec, &created)
	assert.Equal(t, int64(1), created.ID)

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var before dashboardBody
	decodeData(t, rec, &before)
	assert.Equal(t, 1, before.Summary.TotalCount)
	assert.True(t, before.Summary.PendingAmount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, 0, before.Summary.CompletedCount)

	rec = doJSON(t, s, http.MethodPatch, "/api/records/1", map[string]any{"service_status": "Completed", "paid": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after dashboardBody
	decodeData(t, rec, &after)
	assert.Equal(t, 1, after.Summary.CompletedCount)
	assert.True(t, after.Summary.PendingAmount.IsZero())
	assert.True(t, after.Summary.PaidAmount.Equal(decimal.NewFromInt(1200)))
	assert.Greater(t, after.Version, before.Version)
}

func TestLegacyStatusAcceptedOnUpdate(t *testing.T) {
	s := newStoreServer(t)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/api/records", ashaRao()).Code)

	rec := doJSON(t, s, http.MethodPatch, "/api/records/1", map[string]any{"service_status": "Finished", "paid": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated recorddomain.ServiceRecord
	decodeData(t, rec, &updated)
	assert.Equal(t, recorddomain.StatusCompleted, updated.Status)
}

func TestCreateValidation(t *testing.T) {
	s := newStoreServer(t)

	cases := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing name", func(b map[string]any) { delete(b, "name") }, "name"},
		{"blank name", func(b map[string]any) { b["name"] = "   " }, "name"},
		{"unknown service", func(b map[string]any) { b["service"] = "Bed Bugs" }, "service"},
		{"unknown payment method", func(b map[string]any) { b["payment_method"] = "Cheque" }, "payment_method"},
		{"unknown status", func(b map[string]any) { b["service_status"] = "Paused" }, "service_status"},
		{"negative amount", func(b map[string]any) { b["amount"] = -1 }, "amount"},
		{"bad date", func(b map[string]any) { b["visit_date"] = "01/09/2024" }, "visit_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := ashaRao()
			tc.mutate(body)
			rec := doJSON(t, s, http.MethodPost, "/api/records", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			payload := decodeError(t, rec)
			assert.Equal(t, "validation_error", payload.Type)
			require.NotEmpty(t, payload.Errors)
			assert.Equal(t, tc.field, payload.Errors[0].Field)
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/api/records", nil)
	var list recorddomain.ListRecordResponse
	decodeData(t, rec, &list)
	assert.Equal(t, int64(0), list.Total)
}

func TestMalformedBodyIsInvalidRequest(t *testing.T) {
	s := newStoreServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_request", payload.Errors[0].Code)
}

func TestRecordNotFoundAndBadID(t *testing.T) {
	s := newStoreServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/records/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPatch, "/api/records/42", map[string]any{"service_status": "Completed", "paid": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/records/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decodeError(t, rec).Errors[0].Field)
}

func TestListRecordsFiltersAndLimit(t *testing.T) {
	s := newStoreServer(t)
	for i, paid := range []bool{true, false, false} {
		body := ashaRao()
		body["paid"] = paid
		body["name"] = []string{"A", "B", "C"}[i]
		require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/api/records", body).Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/records?payment=unpaid&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list recorddomain.ListRecordResponse
	decodeData(t, rec, &list)
	assert.Equal(t, 1, list.Shown)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, int64(3), list.All)
	require.Len(t, list.Records, 1)
	assert.Equal(t, "C", list.Records[0].Name)

	rec = doJSON(t, s, http.MethodGet, "/api/records?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/records?payment=maybe", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "payment", decodeError(t, rec).Errors[0].Field)
}

func TestExportCSV(t *testing.T) {
	s := newStoreServer(t)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/api/records", ashaRao()).Code)

	rec := doJSON(t, s, http.MethodGet, "/api/records/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pest_control_data_20240901.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.Columns, rows[0])
	assert.Equal(t, "Plot 4, Bandra, Mumbai", rows[1][3])

	rec = doJSON(t, s, http.MethodGet, "/api/records/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthStatusAndCatalog(t *testing.T) {
	s := newStoreServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Report bootstrap.Report `json:"report"`
		Lines  []string         `json:"lines"`
	}
	decodeData(t, rec, &status)
	assert.Equal(t, bootstrap.StateFresh, status.Report.State)
	assert.Contains(t, status.Lines, "records: 0")

	rec = doJSON(t, s, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog struct {
		Services []string `json:"services"`
		Statuses []string `json:"statuses"`
	}
	decodeData(t, rec, &catalog)
	assert.Len(t, catalog.Services, 7)
	assert.NotContains(t, catalog.Statuses, "Finished")
}

func TestDegradedStoreReturns503(t *testing.T) {
	path := filepath.Join(t.TempDir(), "active.db")
	handle := db.Unavailable(path, errors.New("disk detached"))
	outcome := &bootstrap.Outcome{ActivePath: path, State: bootstrap.StateFresh, Err: handle.Err()}
	s := newTestServer(t, handle, outcome)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")

	for _, path := range []string{"/api/records", "/api/dashboard", "/api/records/export"} {
		rec = doJSON(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "service_unavailable", decodeError(t, rec).Type)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/records", ashaRao())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded":true`)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(recorddomain.ErrInvalidAmount)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_amount", code)

	typ, code = classifyErrorForLog(recorddomain.ErrNotFound)
	assert.Equal(t, "not_found", typ)
	assert.Equal(t, "not_found", code)
}
