package sizing

import (
	"fmt"
	"math"
)

// DeratingBracket maps an inclusive conductor temperature range (°F) to an
// ampacity correction factor.
type DeratingBracket struct {
	MinF   float64
	MaxF   float64
	Factor float64
}

// DeratingTable holds mutually exclusive brackets and the factor used for any
// temperature no bracket covers.
type DeratingTable struct {
	Brackets []DeratingBracket
	Default  float64
}

// AmbientDerating is the correction table keyed by maximum expected
// conductor temperature.
func AmbientDerating() DeratingTable {
	return DeratingTable{
		Default: 0.82,
		Brackets: []DeratingBracket{
			{MinF: 123, MaxF: 131, Factor: 0.76},
			{MinF: 132, MaxF: 140, Factor: 0.71},
			{MinF: 141, MaxF: 158, Factor: 0.58},
			{MinF: 159, MaxF: 176, Factor: 0.41},
		},
	}
}

// Factor returns the correction factor for a maximum conductor temperature.
func (t DeratingTable) Factor(maxTempF float64) float64 {
	for _, b := range t.Brackets {
		if b.MinF <= maxTempF && maxTempF <= b.MaxF {
			return b.Factor
		}
	}
	return t.Default
}

func (t DeratingTable) validate() error {
	if t.Default <= 0 || t.Default > 1 {
		return fmt.Errorf("%w: default derating factor %v outside (0,1]", ErrInvalidArgument, t.Default)
	}
	for i, b := range t.Brackets {
		if b.Factor <= 0 || b.Factor > 1 {
			return fmt.Errorf("%w: derating factor %v outside (0,1]", ErrInvalidArgument, b.Factor)
		}
		if b.MinF > b.MaxF {
			return fmt.Errorf("%w: derating bracket %v-%v is inverted", ErrInvalidArgument, b.MinF, b.MaxF)
		}
		if i > 0 && b.MinF <= t.Brackets[i-1].MaxF {
			return fmt.Errorf("%w: derating brackets overlap at %v", ErrInvalidArgument, b.MinF)
		}
	}
	return nil
}

// MaxTemperature adds the safety margin to a site's record-high temperature.
func (e *Engine) MaxTemperature(siteTempF float64) float64 {
	return siteTempF + e.params.TemperatureMarginF
}

// DeratingFactor returns the correction factor for a site's record-high
// ambient temperature.
func (e *Engine) DeratingFactor(siteTempF float64) (float64, error) {
	if math.IsNaN(siteTempF) || math.IsInf(siteTempF, 0) {
		return 0, fmt.Errorf("%w: site temperature %v is not finite", ErrInvalidArgument, siteTempF)
	}
	return e.params.Derating.Factor(e.MaxTemperature(siteTempF)), nil
}
