package sizing

import (
	"fmt"
	"strconv"
	"strings"
)

// Gauge is an American Wire Gauge number. A smaller number is a thicker
// conductor. The zero value means no conductor was selected.
type Gauge int

// Candidate conductor gauges.
const (
	GaugeNone Gauge = 0
	AWG10     Gauge = 10
	AWG8      Gauge = 8
	AWG6      Gauge = 6
)

func (g Gauge) String() string {
	if g == GaugeNone {
		return "none"
	}
	return strconv.Itoa(int(g)) + " AWG"
}

// MarshalText encodes g as its String form, so JSON carries "10 AWG" or "none".
func (g Gauge) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts "none", "10 AWG" or a bare gauge number.
func (g *Gauge) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || strings.EqualFold(s, "none") {
		*g = GaugeNone
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(s), "AWG")))
	if err != nil || n < 0 {
		return fmt.Errorf("%w: gauge %q", ErrInvalidArgument, s)
	}
	*g = Gauge(n)
	return nil
}

// TemperatureClass is a conductor insulation temperature rating in °C.
type TemperatureClass int

// Insulation rating columns of the ampacity table.
const (
	Class60C TemperatureClass = 60
	Class75C TemperatureClass = 75
	Class90C TemperatureClass = 90
)

// AmpacityRow holds the base ampacity of one gauge for each rating column.
type AmpacityRow struct {
	Gauge Gauge
	C60   float64
	C75   float64
	C90   float64
}

// Ampacity returns the row's base ampacity for the given rating column.
func (r AmpacityRow) Ampacity(class TemperatureClass) (float64, error) {
	switch class {
	case Class60C:
		return r.C60, nil
	case Class75C:
		return r.C75, nil
	case Class90C:
		return r.C90, nil
	default:
		return 0, fmt.Errorf("%w: unknown temperature class %d", ErrInvalidArgument, class)
	}
}

// AmpacityTable is ordered by increasing ampacity (and physical size). The
// order is the selection preference.
type AmpacityTable []AmpacityRow

// CopperAmpacity is the copper conductor table for the three candidate gauges.
func CopperAmpacity() AmpacityTable {
	return AmpacityTable{
		{Gauge: AWG10, C60: 30, C75: 35, C90: 40},
		{Gauge: AWG8, C60: 40, C75: 50, C90: 55},
		{Gauge: AWG6, C60: 55, C75: 65, C90: 75},
	}
}

// Ampacity looks up the base ampacity of a gauge.
func (t AmpacityTable) Ampacity(g Gauge, class TemperatureClass) (float64, error) {
	for _, row := range t {
		if row.Gauge == g {
			return row.Ampacity(class)
		}
	}
	return 0, fmt.Errorf("%w: gauge %s not in ampacity table", ErrInvalidArgument, g)
}

// Gauges lists the table's gauges in preference order.
func (t AmpacityTable) Gauges() []Gauge {
	out := make([]Gauge, len(t))
	for i, row := range t {
		out[i] = row.Gauge
	}
	return out
}

func (t AmpacityTable) validate(class TemperatureClass) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty ampacity table", ErrInvalidArgument)
	}
	prev := 0.0
	for _, row := range t {
		if row.Gauge == GaugeNone {
			return fmt.Errorf("%w: ampacity row without gauge", ErrInvalidArgument)
		}
		a, err := row.Ampacity(class)
		if err != nil {
			return err
		}
		if a <= prev {
			return fmt.Errorf("%w: ampacity table not strictly increasing at %s", ErrInvalidArgument, row.Gauge)
		}
		prev = a
	}
	return nil
}
