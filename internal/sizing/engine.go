package sizing

// Engine runs the sizing calculations for one set of [Params]. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	params     Params
	observer   Observer
	escalation *EscalationPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers the receiver of non-compliance notices.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithEscalation enables OCPD escalation. See [EscalationPolicy].
func WithEscalation(p EscalationPolicy) Option {
	return func(e *Engine) {
		e.escalation = &p
	}
}

// NewEngine validates params and builds an Engine. Without options the
// engine passes the tabled OCPD through unchanged and discards
// non-compliance notices.
func NewEngine(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params:   params.clone(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.escalation != nil {
		if err := e.escalation.validate(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Params returns a copy of the engine's parameters.
func (e *Engine) Params() Params {
	return e.params.clone()
}

// Escalates reports whether OCPD escalation is enabled.
func (e *Engine) Escalates() bool {
	return e.escalation != nil
}

// Observed returns a copy of the engine that reports to o instead.
func (e *Engine) Observed(o Observer) *Engine {
	c := *e
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
	return &c
}
