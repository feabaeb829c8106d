package sizing

import "fmt"

// WireSizingResult is the conductor recommendation for one panel count.
type WireSizingResult struct {
	PanelCount      int     `json:"panel_count"`
	Gauge           Gauge   `json:"gauge"`
	DeratingFactor  float64 `json:"derating_factor"`
	DeratedAmpacity float64 `json:"derated_ampacity,omitempty"`
	OCPD            int     `json:"ocpd"`
	Compliant       bool    `json:"compliant"`
	Escalated       bool    `json:"escalated,omitempty"`
}

// load is the set of currents a conductor must strictly exceed.
type load struct {
	continuous float64
	breaker    float64
	ocpd       int
}

func (l load) carriedBy(amps float64) bool {
	return amps > l.continuous && amps > l.breaker && amps > float64(l.ocpd)
}

type candidate struct {
	gauge Gauge
	amps  float64
}

// SelectWire picks the smallest compliant conductor for each panel count.
// The four series are aligned by index and must have equal length.
func (e *Engine) SelectWire(panelCounts []int, breakerCurrents []float64, ocpds []int, continuousCurrents []float64, siteTempF float64) ([]WireSizingResult, error) {
	n := len(panelCounts)
	if len(breakerCurrents) != n || len(ocpds) != n || len(continuousCurrents) != n {
		return nil, fmt.Errorf("%w: series lengths differ (panels=%d breaker=%d ocpd=%d continuous=%d)",
			ErrInvalidArgument, n, len(breakerCurrents), len(ocpds), len(continuousCurrents))
	}
	for _, p := range panelCounts {
		if p <= 0 {
			return nil, fmt.Errorf("%w: panel count %d must be positive", ErrInvalidArgument, p)
		}
	}

	factor, err := e.DeratingFactor(siteTempF)
	if err != nil {
		return nil, err
	}
	candidates, err := e.deratedCandidates(factor)
	if err != nil {
		return nil, err
	}

	out := make([]WireSizingResult, n)
	for i := range out {
		l := load{continuous: continuousCurrents[i], breaker: breakerCurrents[i], ocpd: ocpds[i]}
		out[i] = e.selectOne(panelCounts[i], l, candidates, factor, siteTempF)
	}
	return out, nil
}

// SelectWireForSeries sizes conductors for a series produced by
// [Engine.CurrentSeries].
func (e *Engine) SelectWireForSeries(series []CurrentRating, siteTempF float64) ([]WireSizingResult, error) {
	panels := make([]int, len(series))
	breaker := make([]float64, len(series))
	ocpds := make([]int, len(series))
	continuous := make([]float64, len(series))
	for i, c := range series {
		panels[i] = c.PanelCount
		breaker[i] = c.BreakerCurrent
		ocpds[i] = c.OCPD
		continuous[i] = c.ContinuousCurrent
	}
	return e.SelectWire(panels, breaker, ocpds, continuous, siteTempF)
}

// DeratedAmpacity returns the derated ampacity of a candidate gauge at a
// site temperature.
func (e *Engine) DeratedAmpacity(g Gauge, siteTempF float64) (float64, error) {
	factor, err := e.DeratingFactor(siteTempF)
	if err != nil {
		return 0, err
	}
	base, err := e.params.Ampacity.Ampacity(g, e.params.TemperatureClass)
	if err != nil {
		return 0, err
	}
	return base * factor, nil
}

func (e *Engine) deratedCandidates(factor float64) ([]candidate, error) {
	out := make([]candidate, len(e.params.Ampacity))
	for i, row := range e.params.Ampacity {
		base, err := row.Ampacity(e.params.TemperatureClass)
		if err != nil {
			return nil, err
		}
		out[i] = candidate{gauge: row.Gauge, amps: base * factor}
	}
	return out, nil
}

func (e *Engine) selectOne(panels int, l load, candidates []candidate, factor, siteTempF float64) WireSizingResult {
	res := WireSizingResult{
		PanelCount:     panels,
		DeratingFactor: factor,
		OCPD:           l.ocpd,
	}

	// With escalation enabled a tabled OCPD below the breaker current is
	// itself a violation and goes straight to escalation.
	undersized := e.escalation != nil && float64(l.ocpd) < l.breaker
	if !undersized {
		if c, ok := firstCarrying(candidates, l); ok {
			res.Gauge = c.gauge
			res.DeratedAmpacity = c.amps
			res.Compliant = true
			return res
		}
	}

	if e.escalation != nil {
		if ocpd, c, ok := e.escalation.escalate(candidates, l); ok {
			res.Gauge = c.gauge
			res.DeratedAmpacity = c.amps
			res.OCPD = ocpd
			res.Compliant = true
			res.Escalated = true
			return res
		}
	}

	e.observer.NonCompliant(NonCompliance{
		PanelCount:          panels,
		SiteTemperatureF:    siteTempF,
		MaxTemperatureF:     e.MaxTemperature(siteTempF),
		DeratingFactor:      factor,
		ContinuousCurrent:   l.continuous,
		BreakerCurrent:      l.breaker,
		OCPD:                l.ocpd,
		BestDeratedAmpacity: candidates[len(candidates)-1].amps,
	})
	return res
}

func firstCarrying(candidates []candidate, l load) (candidate, bool) {
	for _, c := range candidates {
		if l.carriedBy(c.amps) {
			return c, true
		}
	}
	return candidate{}, false
}
