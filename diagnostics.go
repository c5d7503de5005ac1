package oastype

// Diagnostic records a value that was accepted for a boolean, number or
// integer type only because its textual form coerced.
type Diagnostic struct {
	Path  string `json:"path"`      // JSON Pointer of the value.
	Type  Type   `json:"data_type"` // Declared type the text was coerced into.
	Value any    `json:"value"`     // The value as received.
}

// Sink receives diagnostics. Implementations must not block for long; the
// evaluator recovers from panics raised inside Record.
type Sink interface {
	Record(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Record(d Diagnostic) { f(d) }

// MultiSink fans diagnostics out to several sinks. Nil sinks are skipped.
func MultiSink(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Record(d Diagnostic) {
	for _, s := range m {
		record(s, d)
	}
}

// Emit forwards diagnostics to s. A panicking sink never reaches the caller.
func Emit(s Sink, ds []Diagnostic) {
	if s == nil {
		return
	}
	for _, d := range ds {
		record(s, d)
	}
}

func record(s Sink, d Diagnostic) {
	defer func() { _ = recover() }()
	s.Record(d)
}
