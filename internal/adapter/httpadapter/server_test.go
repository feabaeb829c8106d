package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/couchcryptid/solar-sizing-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/solar-sizing-service/internal/observability"
	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultSites = []report.Site{
	{Name: "Fontana", TemperatureF: 117},
	{Name: "Desert Hot Springs", TemperatureF: 123},
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type failingBuilder struct {
	err error
}

func (f *failingBuilder) Build(context.Context, int, []report.Site) (report.Report, error) {
	return report.Report{}, f.err
}

func newBuilder(t *testing.T) *report.Builder {
	t.Helper()
	engine, err := sizing.NewEngine(sizing.DefaultParams())
	require.NoError(t, err)
	return report.NewBuilder(engine, slog.Default(), observability.NewMetricsForTesting())
}

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()
	h := httpadapter.NewSizingHandler(newBuilder(t), 40, defaultSites, slog.Default())
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, h, slog.Default())
}

func tooManySites() string {
	q := url.Values{}
	for i := range httpadapter.MaxSites + 1 {
		q.Add("site", fmt.Sprintf("Site %d=117", i))
	}
	return "/v1/sizing?" + q.Encode()
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(t, nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(t, errors.New("not ready yet")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyzFollowsBuilder(t *testing.T) {
	b := newBuilder(t)
	srv := httpadapter.NewServer(":0", b, httpadapter.NewSizingHandler(b, 22, defaultSites, slog.Default()), slog.Default())

	assert.Equal(t, http.StatusServiceUnavailable, get(srv, "/readyz").Code)
	require.Equal(t, http.StatusOK, get(srv, "/v1/sizing?panels=3").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSizing_Defaults(t *testing.T) {
	rec := get(newTestServer(t, nil), "/v1/sizing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var r report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, 40, r.PanelCount)
	assert.Len(t, r.Power, 40)
	assert.Len(t, r.Currents, 40)
	require.Len(t, r.Sites, 2)
	assert.Equal(t, "Desert Hot Springs", r.Sites[0].Name)
	assert.Equal(t, "Fontana", r.Sites[1].Name)
	assert.Equal(t, 16, r.Sites[0].NonCompliant)
	assert.Equal(t, 6, r.Sites[1].NonCompliant)
}

func TestSizing_QueryOverrides(t *testing.T) {
	rec := get(newTestServer(t, nil), "/v1/sizing?panels=17&site=Palm+Springs:123&site=Riverside=76")
	require.Equal(t, http.StatusOK, rec.Code)

	var r report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, 17, r.PanelCount)
	require.Len(t, r.Sites, 2)

	palm := r.Sites[0]
	assert.Equal(t, "Palm Springs", palm.Name)
	assert.InDelta(t, 0.41, palm.DeratingFactor, 1e-9)
	assert.Equal(t, sizing.AWG6, palm.Results[16].Gauge)

	riverside := r.Sites[1]
	assert.Equal(t, "Riverside", riverside.Name)
	assert.InDelta(t, 0.82, riverside.DeratingFactor, 1e-9)
	assert.Equal(t, sizing.AWG10, riverside.Results[16].Gauge)
}

func TestSizing_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		name, target string
	}{
		{"non-numeric panels", "/v1/sizing?panels=lots"},
		{"zero panels", "/v1/sizing?panels=0"},
		{"too many panels", "/v1/sizing?panels=501"},
		{"site without temperature", "/v1/sizing?site=Fontana"},
		{"site with bad temperature", "/v1/sizing?site=Fontana:hot"},
		{"duplicate sites", "/v1/sizing?site=Fontana:117&site=Fontana:120"},
		{"too many sites", tooManySites()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(srv, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSizing_InternalError(t *testing.T) {
	h := httpadapter.NewSizingHandler(&failingBuilder{err: errors.New("boom")}, 22, defaultSites, slog.Default())
	rec := get(h, "/v1/sizing")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestSizing_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sizing", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSizing_SiteLimit(t *testing.T) {
	q := url.Values{}
	for i := range httpadapter.MaxSites {
		q.Add("site", fmt.Sprintf("Site %d=117", i))
	}
	rec := get(newTestServer(t, nil), "/v1/sizing?panels=2&"+q.Encode())
	require.Equal(t, http.StatusOK, rec.Code)

	var r report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Len(t, r.Sites, httpadapter.MaxSites)
}
