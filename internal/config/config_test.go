package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.PanelCount)
	assert.Equal(t, []report.Site{
		{Name: "Moreno Valley", TemperatureF: 117},
		{Name: "San Bernardino", TemperatureF: 117},
		{Name: "Fontana", TemperatureF: 117},
		{Name: "Desert Hot Springs", TemperatureF: 123},
	}, cfg.Sites)
	assert.Equal(t, 301.7, cfg.PanelOutputWatts)
	assert.Equal(t, 0.97, cfg.SystemDerate)
	assert.Equal(t, 41.0, cfg.TemperatureMarginF)
	assert.False(t, cfg.OCPDEscalation)
	assert.Equal(t, 4, cfg.SizingWorkers)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "pv-sizing-reports", cfg.KafkaTopic)
	assert.Empty(t, cfg.EngineOptions())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PANEL_COUNT", "40")
	t.Setenv("SITES", "Palm Springs=124,Riverside=115")
	t.Setenv("PANEL_OUTPUT_WATTS", "350")
	t.Setenv("SYSTEM_DERATE", "0.96")
	t.Setenv("TEMPERATURE_MARGIN_F", "35")
	t.Setenv("OCPD_ESCALATION", "true")
	t.Setenv("SIZING_WORKERS", "8")
	t.Setenv("CACHE_SIZE", "0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.PanelCount)
	assert.Equal(t, []report.Site{
		{Name: "Palm Springs", TemperatureF: 124},
		{Name: "Riverside", TemperatureF: 115},
	}, cfg.Sites)
	assert.Equal(t, 350.0, cfg.PanelOutputWatts)
	assert.Equal(t, 0.96, cfg.SystemDerate)
	assert.Equal(t, 35.0, cfg.TemperatureMarginF)
	assert.True(t, cfg.OCPDEscalation)
	assert.Equal(t, 8, cfg.SizingWorkers)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-reports", cfg.KafkaTopic)
	assert.Len(t, cfg.EngineOptions(), 1)

	params := cfg.SizingParams()
	assert.Equal(t, 350.0, params.PanelOutputWatts)
	assert.Equal(t, 0.96, params.SystemDerate)
	assert.Equal(t, 35.0, params.TemperatureMarginF)
	assert.Equal(t, sizing.DefaultParams().OCPDTiers, params.OCPDTiers)
}

func TestLoad_SitesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sites:
  - name: Moreno Valley
    record_high_f: 117
  - name: Desert Hot Springs
    record_high_f: 123
`), 0o600))
	t.Setenv("SITES_FILE", path)
	t.Setenv("SITES", "Ignored=1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []report.Site{
		{Name: "Moreno Valley", TemperatureF: 117},
		{Name: "Desert Hot Springs", TemperatureF: 123},
	}, cfg.Sites)
}

func TestLoad_SitesFileErrors(t *testing.T) {
	dir := t.TempDir()

	unknownField := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknownField, []byte("sites:\n  - name: Fontana\n    high: 117\n"), 0o600))

	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("sites:\n  - record_high_f: 117\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"unknown field", unknownField},
		{"site without name", unnamed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SITES_FILE", tc.path)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SITES_FILE")
		})
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"PANEL_COUNT", "0", "PANEL_COUNT"},
		{"PANEL_COUNT", "many", "PANEL_COUNT"},
		{"SIZING_WORKERS", "-1", "SIZING_WORKERS"},
		{"CACHE_SIZE", "-5", "CACHE_SIZE"},
		{"PANEL_OUTPUT_WATTS", "lots", "PANEL_OUTPUT_WATTS"},
		{"SYSTEM_DERATE", "1.5", "engine constants"},
		{"PANEL_OUTPUT_WATTS", "-300", "engine constants"},
		{"TEMPERATURE_MARGIN_F", "warm", "TEMPERATURE_MARGIN_F"},
		{"SITES", "Fontana", "SITES"},
		{"SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
