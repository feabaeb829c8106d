package sizing

// NonCompliance describes a panel count for which no candidate conductor
// satisfies the derated ampacity check.
type NonCompliance struct {
	PanelCount          int
	SiteTemperatureF    float64
	MaxTemperatureF     float64
	DeratingFactor      float64
	ContinuousCurrent   float64
	BreakerCurrent      float64
	OCPD                int
	BestDeratedAmpacity float64 // largest candidate after derating
}

// Observer receives non-compliance notices while a series is sized.
// Implementations must not block; they run inline with the selection.
type Observer interface {
	NonCompliant(n NonCompliance)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(n NonCompliance)

func (f ObserverFunc) NonCompliant(n NonCompliance) { f(n) }

type nopObserver struct{}

func (nopObserver) NonCompliant(NonCompliance) {}
