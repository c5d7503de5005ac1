// Package logsink records coercion diagnostics with zerolog.
package logsink

import (
	"github.com/rs/zerolog"

	oastype "github.com/reoring/oastype"
)

// DefaultMessage is the log message used when none is configured.
const DefaultMessage = "incompatible data type provided"

// Sink writes one log event per diagnostic.
type Sink struct {
	logger zerolog.Logger
	level  zerolog.Level
	msg    string
}

// Option configures a Sink.
type Option func(*Sink)

// WithLevel sets the level of emitted events (default: info).
func WithLevel(l zerolog.Level) Option { return func(s *Sink) { s.level = l } }

// WithMessage overrides the log message.
func WithMessage(msg string) Option { return func(s *Sink) { s.msg = msg } }

// New returns a Sink logging to logger.
func New(logger zerolog.Logger, opts ...Option) *Sink {
	s := &Sink{logger: logger, level: zerolog.InfoLevel, msg: DefaultMessage}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Record implements oastype.Sink.
func (s *Sink) Record(d oastype.Diagnostic) {
	s.logger.WithLevel(s.level).
		Str("path", d.Path).
		Str("data_type", string(d.Type)).
		Interface("value", d.Value).
		Msg(s.msg)
}

var _ oastype.Sink = (*Sink)(nil)
