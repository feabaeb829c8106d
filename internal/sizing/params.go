package sizing

import (
	"fmt"
	"slices"
)

// Params are the named constants the engine computes with. Override fields
// to model a different panel, code cycle or site policy.
type Params struct {
	PanelOutputWatts     float64 // rated AC output per panel
	SystemDerate         float64 // inverter and wiring losses, (0,1]
	UnitCurrent          float64 // continuous amps per panel
	ContinuousMultiplier float64 // NEC continuous-load factor
	TemperatureMarginF   float64 // added to the site record high

	OCPDTiers        []int // ascending standard breaker sizes
	Ampacity         AmpacityTable
	TemperatureClass TemperatureClass
	Derating         DeratingTable
}

// DefaultParams returns the values the engine was calibrated against.
func DefaultParams() Params {
	return Params{
		PanelOutputWatts:     301.7,
		SystemDerate:         0.97,
		UnitCurrent:          1.0,
		ContinuousMultiplier: 1.25,
		TemperatureMarginF:   41,
		OCPDTiers:            []int{20, 25, 30},
		Ampacity:             CopperAmpacity(),
		TemperatureClass:     Class90C,
		Derating:             AmbientDerating(),
	}
}

// Validate reports the first inconsistency in p.
func (p Params) Validate() error {
	if p.PanelOutputWatts <= 0 {
		return fmt.Errorf("%w: panel output must be positive", ErrInvalidArgument)
	}
	if p.SystemDerate <= 0 || p.SystemDerate > 1 {
		return fmt.Errorf("%w: system derate %v outside (0,1]", ErrInvalidArgument, p.SystemDerate)
	}
	if p.UnitCurrent <= 0 {
		return fmt.Errorf("%w: unit current must be positive", ErrInvalidArgument)
	}
	if p.ContinuousMultiplier < 1 {
		return fmt.Errorf("%w: continuous multiplier %v below 1", ErrInvalidArgument, p.ContinuousMultiplier)
	}
	if len(p.OCPDTiers) == 0 {
		return fmt.Errorf("%w: no OCPD tiers", ErrInvalidArgument)
	}
	for i, tier := range p.OCPDTiers {
		if tier <= 0 || (i > 0 && tier <= p.OCPDTiers[i-1]) {
			return fmt.Errorf("%w: OCPD tiers must be positive and ascending", ErrInvalidArgument)
		}
	}
	if err := p.Ampacity.validate(p.TemperatureClass); err != nil {
		return err
	}
	return p.Derating.validate()
}

func (p Params) clone() Params {
	p.OCPDTiers = slices.Clone(p.OCPDTiers)
	p.Ampacity = slices.Clone(p.Ampacity)
	p.Derating.Brackets = slices.Clone(p.Derating.Brackets)
	return p
}
