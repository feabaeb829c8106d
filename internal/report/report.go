// Package report runs the sizing engine over a set of sites and assembles
// the result into the shape downstream renderers consume.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/solar-sizing-service/internal/observability"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report is a complete sizing run: the shared power and current series plus
// one wire sizing series per site.
type Report struct {
	ID             string                 `json:"id"`
	GeneratedAt    time.Time              `json:"generated_at"`
	PanelCount     int                    `json:"panel_count"`
	OCPDEscalation bool                   `json:"ocpd_escalation"`
	Power          []sizing.PowerRating   `json:"power"`
	Currents       []sizing.CurrentRating `json:"currents"`
	Sites          []SiteSizing           `json:"sites"`
}

// SiteSizing is the wire sizing series for one site.
type SiteSizing struct {
	Name            string                    `json:"name"`
	TemperatureF    float64                   `json:"temperature_f"`
	MaxTemperatureF float64                   `json:"max_temperature_f"`
	DeratingFactor  float64                   `json:"derating_factor"`
	NonCompliant    int                       `json:"non_compliant"`
	Results         []sizing.WireSizingResult `json:"results"`
}

// NonCompliantCount totals non-compliant results across all sites.
func (r Report) NonCompliantCount() int {
	n := 0
	for _, s := range r.Sites {
		n += s.NonCompliant
	}
	return n
}

// Publisher delivers a finished report to downstream renderers.
type Publisher interface {
	Publish(ctx context.Context, r Report) error
}

// SiteObserver hands out a non-compliance observer per site.
type SiteObserver interface {
	ForSite(site string) sizing.Observer
}

// Builder produces reports from a sizing engine.
type Builder struct {
	engine   *sizing.Engine
	observer SiteObserver
	cache    *lruCache
	logger   *slog.Logger
	metrics  *observability.Metrics
	workers  int
	ready    atomic.Bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSiteObserver routes non-compliance notices to o, tagged by site.
func WithSiteObserver(o SiteObserver) BuilderOption {
	return func(b *Builder) { b.observer = o }
}

// WithCache keeps up to maxEntries per-site series. Sites served from the
// cache still receive their non-compliance notices.
func WithCache(maxEntries int) BuilderOption {
	return func(b *Builder) {
		if maxEntries > 0 {
			b.cache = newLRUCache(maxEntries)
		}
	}
}

// WithWorkers bounds how many sites are sized concurrently.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder creates a Builder around engine.
func NewBuilder(engine *sizing.Engine, logger *slog.Logger, metrics *observability.Metrics, opts ...BuilderOption) *Builder {
	b := &Builder{
		engine:  engine,
		logger:  logger,
		metrics: metrics,
		workers: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if engine.Escalates() {
		metrics.EscalationEnabled.Set(1)
	} else {
		metrics.EscalationEnabled.Set(0)
	}
	return b
}

// CheckReadiness returns nil once the builder has produced a report.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("no sizing report has been built yet")
	}
	return nil
}

// Build sizes panel counts 1..panelCount for every site. Sites are sized
// concurrently and returned sorted by name. Non-compliant panel counts are
// part of the result, never an error.
func (b *Builder) Build(ctx context.Context, panelCount int, sites []Site) (Report, error) {
	start := time.Now()

	r, err := b.build(ctx, panelCount, sites)
	if err != nil {
		b.metrics.ReportErrors.Inc()
		return Report{}, err
	}

	b.metrics.ReportsGenerated.Inc()
	b.metrics.SitesSized.Add(float64(len(r.Sites)))
	b.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	b.ready.Store(true)

	b.logger.Debug("sizing report built",
		"report_id", r.ID,
		"panel_count", panelCount,
		"sites", len(r.Sites),
		"non_compliant", r.NonCompliantCount(),
	)
	return r, nil
}

func (b *Builder) build(ctx context.Context, panelCount int, sites []Site) (Report, error) {
	if err := validateSites(sites); err != nil {
		return Report{}, err
	}
	power, err := b.engine.PowerSeries(panelCount)
	if err != nil {
		return Report{}, err
	}
	currents, err := b.engine.CurrentSeries(panelCount)
	if err != nil {
		return Report{}, err
	}

	ordered := slices.Clone(sites)
	sortSites(ordered)
	sized := make([]SiteSizing, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, site := range ordered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := b.sizeSite(panelCount, currents, site)
			if err != nil {
				return fmt.Errorf("size site %q: %w", site.Name, err)
			}
			sized[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		ID:             uuid.NewString(),
		GeneratedAt:    clock.Now().UTC(),
		PanelCount:     panelCount,
		OCPDEscalation: b.engine.Escalates(),
		Power:          power,
		Currents:       currents,
		Sites:          sized,
	}, nil
}

func (b *Builder) sizeSite(panelCount int, currents []sizing.CurrentRating, site Site) (SiteSizing, error) {
	var observer sizing.Observer
	if b.observer != nil {
		observer = b.observer.ForSite(site.Name)
	}

	key := cacheKey(panelCount, site.TemperatureF)
	if b.cache != nil {
		if cached, ok := b.cache.get(key); ok {
			b.metrics.SizingCache.WithLabelValues("hit").Inc()
			// Each site gets its own notices even when it shares a series.
			if observer != nil {
				for _, n := range cached.notices {
					observer.NonCompliant(n)
				}
			}
			return cached.forSite(site), nil
		}
		b.metrics.SizingCache.WithLabelValues("miss").Inc()
	}

	var notices []sizing.NonCompliance
	engine := b.engine.Observed(sizing.ObserverFunc(func(n sizing.NonCompliance) {
		notices = append(notices, n)
		if observer != nil {
			observer.NonCompliant(n)
		}
	}))

	factor, err := engine.DeratingFactor(site.TemperatureF)
	if err != nil {
		return SiteSizing{}, err
	}
	results, err := engine.SelectWireForSeries(currents, site.TemperatureF)
	if err != nil {
		return SiteSizing{}, err
	}

	s := siteSizing{
		maxTemperatureF: engine.MaxTemperature(site.TemperatureF),
		deratingFactor:  factor,
		results:         results,
		notices:         notices,
	}
	if b.cache != nil {
		b.cache.put(key, s)
	}
	return s.forSite(site), nil
}

// Publish hands r to p and records the outcome.
func (b *Builder) Publish(ctx context.Context, p Publisher, r Report) error {
	if err := p.Publish(ctx, r); err != nil {
		b.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish report %s: %w", r.ID, err)
	}
	b.metrics.ReportsPublished.Inc()
	b.logger.Info("sizing report published", "report_id", r.ID, "sites", len(r.Sites))
	return nil
}

func countNonCompliant(results []sizing.WireSizingResult) int {
	n := 0
	for _, r := range results {
		if !r.Compliant {
			n++
		}
	}
	return n
}
