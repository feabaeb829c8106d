package observability

import (
	"log/slog"

	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
)

// ComplianceObserver logs non-compliant sizing results and counts them per site.
type ComplianceObserver struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewComplianceObserver creates an observer factory for per-site notices.
func NewComplianceObserver(logger *slog.Logger, metrics *Metrics) *ComplianceObserver {
	return &ComplianceObserver{logger: logger, metrics: metrics}
}

// ForSite returns a sizing.Observer that attributes notices to site.
func (o *ComplianceObserver) ForSite(site string) sizing.Observer {
	return sizing.ObserverFunc(func(n sizing.NonCompliance) {
		o.logger.Warn("no compliant conductor for panel count",
			"site", site,
			"panel_count", n.PanelCount,
			"max_temperature_f", n.MaxTemperatureF,
			"derating_factor", n.DeratingFactor,
			"continuous_current", n.ContinuousCurrent,
			"breaker_current", n.BreakerCurrent,
			"ocpd", n.OCPD,
			"best_derated_ampacity", n.BestDeratedAmpacity,
		)
		o.metrics.NonCompliantResults.WithLabelValues(site).Inc()
	})
}
