package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v2"
)

// defaultSites are the Inland Empire sites the tables were first produced for.
const defaultSites = "Moreno Valley=117,San Bernardino=117,Fontana=117,Desert Hot Springs=123"

// Config holds all service settings, populated from environment variables.
type Config struct {
	PanelCount int
	Sites      []report.Site

	// Engine constants.
	PanelOutputWatts   float64
	SystemDerate       float64
	TemperatureMarginF float64
	OCPDEscalation     bool

	SizingWorkers int
	CacheSize     int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Report topic configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// siteFile is the YAML layout of SITES_FILE.
type siteFile struct {
	Sites []report.Site `yaml:"sites"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	panelCount, err := parsePositiveInt("PANEL_COUNT", 22)
	if err != nil {
		return nil, err
	}
	workers, err := parsePositiveInt("SIZING_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseNonNegativeInt("CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	panelWatts, err := parseFloat("PANEL_OUTPUT_WATTS", 301.7)
	if err != nil {
		return nil, err
	}
	systemDerate, err := parseFloat("SYSTEM_DERATE", 0.97)
	if err != nil {
		return nil, err
	}
	margin, err := parseFloat("TEMPERATURE_MARGIN_F", 41)
	if err != nil {
		return nil, err
	}

	sites, err := loadSites()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PanelCount:         panelCount,
		Sites:              sites,
		PanelOutputWatts:   panelWatts,
		SystemDerate:       systemDerate,
		TemperatureMarginF: margin,
		OCPDEscalation:     os.Getenv("OCPD_ESCALATION") == "true",
		SizingWorkers:      workers,
		CacheSize:          cacheSize,
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "pv-sizing-reports"),
	}

	if err := cfg.SizingParams().Validate(); err != nil {
		return nil, fmt.Errorf("engine constants: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// SizingParams returns the engine parameters with the configured overrides.
func (c *Config) SizingParams() sizing.Params {
	p := sizing.DefaultParams()
	p.PanelOutputWatts = c.PanelOutputWatts
	p.SystemDerate = c.SystemDerate
	p.TemperatureMarginF = c.TemperatureMarginF
	return p
}

// EngineOptions returns the engine options implied by the configuration.
func (c *Config) EngineOptions() []sizing.Option {
	if !c.OCPDEscalation {
		return nil
	}
	return []sizing.Option{sizing.WithEscalation(sizing.DefaultEscalation())}
}

// loadSites reads SITES_FILE when set, otherwise the SITES list.
func loadSites() ([]report.Site, error) {
	if path := os.Getenv("SITES_FILE"); path != "" {
		return readSiteFile(path)
	}
	sites, err := report.ParseSites(sharedcfg.EnvOrDefault("SITES", defaultSites))
	if err != nil {
		return nil, fmt.Errorf("invalid SITES: %w", err)
	}
	return sites, nil
}

func readSiteFile(path string) ([]report.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read SITES_FILE: %w", err)
	}
	var f siteFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse SITES_FILE: %w", err)
	}
	for _, s := range f.Sites {
		if s.Name == "" {
			return nil, errors.New("invalid SITES_FILE: site without name")
		}
	}
	return f.Sites, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
