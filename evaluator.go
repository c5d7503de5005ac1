package oastype

import (
	"github.com/reoring/oastype/formats"
)

// Check is one (value, declared type, declared format) triple. Path locates
// the value for diagnostics and issues; it defaults to "/".
type Check struct {
	Path   string
	Value  any
	Type   Type
	Format string
}

// Result is the outcome of Evaluate. Err is nil on success or one of
// *UnknownTypeError, *TypeMismatchError, *FormatMismatchError,
// *FormatUnresolvableError.
type Result struct {
	Err         error
	Diagnostics []Diagnostic
}

// OK reports whether the check passed.
func (r Result) OK() bool { return r.Err == nil }

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithNumberMode selects how floats are matched against "integer".
func WithNumberMode(m NumberMode) Option { return func(e *Evaluator) { e.numbers = m } }

// WithSink attaches a diagnostics sink used by Validate and ValidateAt.
// Evaluate never emits; it returns diagnostics to the caller.
func WithSink(s Sink) Option { return func(e *Evaluator) { e.sink = s } }

// Evaluator checks values against declared types and formats. It is safe for
// concurrent use.
type Evaluator struct {
	formats *formats.Registry
	numbers NumberMode
	sink    Sink
}

// New returns an Evaluator backed by reg. The registry is frozen so that no
// registration can race with validation. A nil registry means no formats.
func New(reg *formats.Registry, opts ...Option) *Evaluator {
	if reg == nil {
		reg = formats.New()
	}
	reg.Freeze()
	e := &Evaluator{formats: reg}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Formats returns the evaluator's format registry.
func (e *Evaluator) Formats() *formats.Registry { return e.formats }

// Validate checks v against t and, when format is not empty, the format
// registered for (t, format). Diagnostics go to the configured sink.
func (e *Evaluator) Validate(v any, t Type, format string) error {
	return e.ValidateAt("/", v, t, format)
}

// ValidateAt is Validate with an explicit JSON Pointer for diagnostics.
func (e *Evaluator) ValidateAt(path string, v any, t Type, format string) error {
	return e.Run(Check{Path: path, Value: v, Type: t, Format: format}).Err
}

// Run is Evaluate followed by emitting the diagnostics to the configured sink.
func (e *Evaluator) Run(c Check) Result {
	res := e.Evaluate(c)
	Emit(e.sink, res.Diagnostics)
	return res
}

// Evaluate runs the type check and then the format check. It has no side
// effects: coercions are reported in Result.Diagnostics.
func (e *Evaluator) Evaluate(c Check) Result {
	if c.Path == "" {
		c.Path = "/"
	}
	var res Result
	coerced, err := e.matchType(c.Value, c.Type)
	if coerced {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Path: c.Path, Type: c.Type, Value: c.Value})
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Err = e.matchFormat(c.Value, c.Type, c.Format)
	return res
}

// matchType applies the per-type matching rule. coerced is true when the value
// only matched through its textual form.
func (e *Evaluator) matchType(v any, t Type) (coerced bool, err error) {
	mismatch := func() error { return &TypeMismatchError{Type: t, Value: v} }
	switch t {
	case TypeObject:
		if !isObject(v) {
			return false, mismatch()
		}
	case TypeArray:
		if !isArray(v) {
			return false, mismatch()
		}
	case TypeBoolean:
		if isBool(v) {
			return false, nil
		}
		if s, ok := asText(v); ok && boolText.MatchString(s) {
			return true, nil
		}
		return false, mismatch()
	case TypeNumber:
		if isNumeric(v) {
			return false, nil
		}
		if s, ok := asText(v); ok && numericText.MatchString(s) {
			return true, nil
		}
		return false, mismatch()
	case TypeInteger:
		if isInteger(v, e.numbers) {
			return false, nil
		}
		if s, ok := asText(v); ok && integerText.MatchString(s) {
			return true, nil
		}
		return false, mismatch()
	case TypeString:
		if _, ok := asText(v); !ok {
			return false, mismatch()
		}
	default:
		return false, &UnknownTypeError{Type: t}
	}
	return false, nil
}

// matchFormat runs the registered format validator. Unregistered formats pass.
func (e *Evaluator) matchFormat(v any, t Type, format string) error {
	if format == "" {
		return nil
	}
	p, ok, err := e.formats.Lookup(string(t), format)
	if err != nil {
		return &FormatUnresolvableError{Type: t, Format: format, Cause: err}
	}
	if !ok {
		return nil
	}
	if !p(v) {
		return &FormatMismatchError{Format: format, Type: t, Value: v}
	}
	return nil
}
