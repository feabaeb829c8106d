package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the sizing service.
type Metrics struct {
	ReportsGenerated prometheus.Counter
	ReportErrors     prometheus.Counter
	ReportDuration   prometheus.Histogram
	SitesSized       prometheus.Counter

	// Compliance metrics.
	NonCompliantResults *prometheus.CounterVec // labels: site
	EscalationEnabled   prometheus.Gauge

	// Cache metrics.
	SizingCache *prometheus.CounterVec // labels: result={hit,miss}

	// Publishing metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all sizing metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "reports_generated_total",
			Help:      "Total sizing reports built.",
		}),
		ReportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "report_errors_total",
			Help:      "Total sizing requests rejected with an error.",
		}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pv_sizing",
			Name:      "report_duration_seconds",
			Help:      "Duration of a complete sizing report build.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		SitesSized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "sites_sized_total",
			Help:      "Total per-site wire sizing series produced.",
		}),
		NonCompliantResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "noncompliant_results_total",
			Help:      "Panel counts for which no candidate conductor was compliant, by site.",
		}, []string{"site"}),
		EscalationEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pv_sizing",
			Name:      "ocpd_escalation_enabled",
			Help:      "1 when OCPD escalation is enabled, 0 otherwise.",
		}),
		SizingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "cache_lookups_total",
			Help:      "Per-site sizing cache lookups by result.",
		}, []string{"result"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "reports_published_total",
			Help:      "Total sizing reports written to the report topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pv_sizing",
			Name:      "publish_errors_total",
			Help:      "Total failures writing sizing reports to the report topic.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportErrors,
		m.ReportDuration,
		m.SitesSized,
		m.NonCompliantResults,
		m.EscalationEnabled,
		m.SizingCache,
		m.ReportsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsGenerated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "reports_generated_total"}),
		ReportErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "report_errors_total"}),
		ReportDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "pv_sizing", Name: "report_duration_seconds"}),
		SitesSized:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "sites_sized_total"}),
		NonCompliantResults: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "noncompliant_results_total"}, []string{"site"}),
		EscalationEnabled:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pv_sizing", Name: "ocpd_escalation_enabled"}),
		SizingCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "cache_lookups_total"}, []string{"result"}),
		ReportsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "reports_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pv_sizing", Name: "publish_errors_total"}),
	}
}
