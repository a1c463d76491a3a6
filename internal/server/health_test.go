package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/notion-mcp/internal/config"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := serve(t, h.LivenessHandler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := newTestServerContext(t, nil)
	h := NewHealthChecker(sc)

	rec := serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	assert.False(t, h.IsReady())

	rec = serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusNotReady, resp.Status)
	assert.Equal(t, healthStatusNotReady, resp.Checks["ready"])
	assert.Equal(t, healthStatusOK, resp.Checks["shutdown"])
}

func TestHealthChecker_Readiness_ShuttingDown(t *testing.T) {
	sc := newTestServerContext(t, nil)
	h := NewHealthChecker(sc)
	require.NoError(t, sc.Shutdown())

	rec := serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Checks["shutdown"])
}

func TestHealthChecker_Detailed(t *testing.T) {
	sc := newTestServerContext(t, &config.Config{APIToken: "t", CalendarDBID: "secret-calendar-id"})
	h := NewHealthChecker(sc)

	rec := serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-calendar-id")

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusOK, resp.Status)
	assert.NotEmpty(t, resp.Uptime)
	assert.Equal(t, map[string]string{
		"calendar": databaseConfigured,
		"list":     databaseNotConfigured,
	}, resp.Databases)
}

func TestHealthChecker_RegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(nil).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, serve(t, mux, path).Code)
		})
	}
}
