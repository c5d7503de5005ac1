// Package metrics provides Prometheus metrics for type/format evaluation.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	oastype "github.com/reoring/oastype"
)

// Outcome labels.
const (
	OutcomeOK                 = "ok"
	OutcomeTypeMismatch       = "type_mismatch"
	OutcomeFormatMismatch     = "format_mismatch"
	OutcomeUnknownType        = "unknown_type"
	OutcomeFormatUnresolvable = "format_unresolvable"
	OutcomeOther              = "other"
)

// Collector holds the Prometheus metrics.
type Collector struct {
	Coercions   *prometheus.CounterVec
	Validations *prometheus.CounterVec

	// Format registry reloads
	Reloads      prometheus.Counter
	ReloadErrors prometheus.Counter
}

// New creates a collector registered on the default registry.
func New() *Collector { return NewWithRegistry(prometheus.DefaultRegisterer) }

// NewWithRegistry creates a collector registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		Coercions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "oastype",
				Name:      "coercions_total",
				Help:      "Values accepted only through their textual form",
			},
			[]string{"type"},
		),
		Validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "oastype",
				Name:      "validations_total",
				Help:      "Type/format checks by declared type and outcome",
			},
			[]string{"type", "outcome"},
		),
		Reloads: f.NewCounter(prometheus.CounterOpts{
			Namespace: "oastype",
			Name:      "format_reloads_total",
			Help:      "Successful format registry reloads",
		}),
		ReloadErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "oastype",
			Name:      "format_reload_errors_total",
			Help:      "Failed format registry reloads",
		}),
	}
}

// Record implements oastype.Sink by counting coercions.
func (c *Collector) Record(d oastype.Diagnostic) {
	c.Coercions.WithLabelValues(string(d.Type)).Inc()
}

// Observe counts the outcome of one check.
func (c *Collector) Observe(t oastype.Type, err error) {
	label := string(t)
	if !t.Known() {
		// Keep label cardinality bounded for schema typos.
		label = "unknown"
	}
	c.Validations.WithLabelValues(label, Outcome(err)).Inc()
}

// Outcome maps an evaluator error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, oastype.ErrTypeMismatch):
		return OutcomeTypeMismatch
	case errors.Is(err, oastype.ErrFormatMismatch):
		return OutcomeFormatMismatch
	case errors.Is(err, oastype.ErrUnknownType):
		return OutcomeUnknownType
	case errors.Is(err, oastype.ErrFormatUnresolvable):
		return OutcomeFormatUnresolvable
	}
	return OutcomeOther
}

var _ oastype.Sink = (*Collector)(nil)
