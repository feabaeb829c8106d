package sizing

import "fmt"

// EscalationPolicy raises the OCPD in fixed steps when the tabled breaker
// cannot be paired with a candidate conductor, or when the tabled breaker is
// smaller than the breaker current (the tier table stops at 30 A).
//
// Each raised OCPD below the breaker current is skipped. The first raised
// OCPD for which a candidate strictly exceeds the continuous current, the
// breaker current and the raised OCPD is recommended. A raised OCPD only
// tightens the conductor check, so escalation cannot rescue a result whose
// conductor was too small for the tabled OCPD; it exists to right-size
// breakers that the tier table caps.
type EscalationPolicy struct {
	Step     int // amps added per attempt
	MaxSteps int // attempts before giving up
}

// DefaultEscalation raises in 5 A steps, at most five times.
func DefaultEscalation() EscalationPolicy {
	return EscalationPolicy{Step: 5, MaxSteps: 5}
}

func (p EscalationPolicy) validate() error {
	if p.Step <= 0 || p.MaxSteps <= 0 {
		return fmt.Errorf("%w: escalation step and max steps must be positive", ErrInvalidArgument)
	}
	return nil
}

func (p EscalationPolicy) escalate(candidates []candidate, l load) (int, candidate, bool) {
	ocpd := l.ocpd
	for range p.MaxSteps {
		ocpd += p.Step
		if float64(ocpd) < l.breaker {
			continue
		}
		raised := l
		raised.ocpd = ocpd
		if c, ok := firstCarrying(candidates, raised); ok {
			return ocpd, c, true
		}
	}
	return 0, candidate{}, false
}
