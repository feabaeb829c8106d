package sizing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PowerRating is the array's AC output for a panel count.
type PowerRating struct {
	PanelCount int     `json:"panel_count"`
	KW         float64 `json:"kw"`
}

var wattsPerKilowatt = decimal.NewFromInt(1000)

// PowerSeries returns the AC power rating for every panel count 1..n.
func (e *Engine) PowerSeries(n int) ([]PowerRating, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: panel count %d must be positive", ErrInvalidArgument, n)
	}
	perPanel := decimal.NewFromFloat(e.params.PanelOutputWatts).
		Mul(decimal.NewFromFloat(e.params.SystemDerate))

	out := make([]PowerRating, n)
	for i := range out {
		panels := i + 1
		out[i] = PowerRating{
			PanelCount: panels,
			KW:         kilowatts(perPanel, panels),
		}
	}
	return out, nil
}

// kilowatts rounds half away from zero at three decimals.
func kilowatts(perPanelWatts decimal.Decimal, panels int) float64 {
	return perPanelWatts.
		Mul(decimal.NewFromInt(int64(panels))).
		Div(wattsPerKilowatt).
		Round(3).
		InexactFloat64()
}
