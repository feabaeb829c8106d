package sizing

import "fmt"

// CurrentRating holds the current figures for a panel count.
type CurrentRating struct {
	PanelCount        int     `json:"panel_count"`
	BreakerCurrent    float64 `json:"breaker_current"`
	OCPD              int     `json:"ocpd"`
	ContinuousCurrent float64 `json:"continuous_current"`
}

// CurrentSeries returns breaker current, OCPD and continuous current for
// every panel count 1..n.
func (e *Engine) CurrentSeries(n int) ([]CurrentRating, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: panel count %d must be positive", ErrInvalidArgument, n)
	}
	out := make([]CurrentRating, n)
	for i := range out {
		panels := i + 1
		continuous := float64(panels) * e.params.UnitCurrent
		breaker := continuous * e.params.ContinuousMultiplier
		out[i] = CurrentRating{
			PanelCount:        panels,
			BreakerCurrent:    breaker,
			OCPD:              SelectOCPD(e.params.OCPDTiers, breaker),
			ContinuousCurrent: continuous,
		}
	}
	return out, nil
}

// SelectOCPD returns the smallest tier at or above the breaker current. The
// last tier is returned when the current exceeds every tier.
func SelectOCPD(tiers []int, breakerCurrent float64) int {
	for _, tier := range tiers {
		if breakerCurrent <= float64(tier) {
			return tier
		}
	}
	if len(tiers) == 0 {
		return 0
	}
	return tiers[len(tiers)-1]
}
