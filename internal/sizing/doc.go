// Package sizing implements the electrical sizing engine for a rooftop
// photovoltaic (PV) array: AC power output, breaker and continuous current,
// overcurrent protective device (OCPD) selection, and temperature-derated
// copper conductor selection under a simplified reading of the National
// Electrical Code (NEC).
//
// # Power Rating
//
// Each panel contributes a fixed AC output (301.7 W by default) reduced by a
// system derate (0.97) for inverter and wiring losses:
//
//	kW(n) = n × 301.7 × 0.97 / 1000
//
// Values are rounded to three decimals, half away from zero. The product is
// computed in exact decimal arithmetic, so a tie at the fourth decimal
// always rounds up.
//
// # Current and OCPD
//
// One amp of continuous current is modelled per panel. NEC continuous loads
// (3+ hours) are sized at 125%, so the breaker current is n × 1.0 × 1.25.
// The OCPD is the smallest standard tier that covers the breaker current:
//
//	breaker ≤ 20 A → 20 A | breaker ≤ 25 A → 25 A | otherwise → 30 A
//
// The tier table does not extend past 30 A. Arrays whose breaker current
// exceeds 30 A keep a 30 A OCPD unless OCPD escalation is enabled, see
// [EscalationPolicy].
//
// # Temperature Derating
//
// Conductors run hotter than the site's record-high ambient temperature. A
// fixed 41 °F margin is added before looking up the correction factor:
//
//	123–131 °F → 0.76 | 132–140 °F → 0.71 | 141–158 °F → 0.58 | 159–176 °F → 0.41
//
// Bracket edges are inclusive. Everything else, including temperatures above
// 176 °F and fractional temperatures between two integer brackets, uses the
// base factor 0.82.
//
// # Conductor Selection
//
// Candidates are 10, 8 and 6 AWG copper at the 90 °C ampacity column
// (40, 55 and 75 A). The derated ampacity of a candidate must be strictly
// greater than the continuous current, the breaker current and the OCPD.
// The smallest qualifying gauge wins. When none qualifies the result is
// flagged non-compliant and the original OCPD is passed through; this is a
// normal outcome that never aborts a series. Non-compliance is reported to
// an injected [Observer] so callers decide how to surface it.
package sizing
