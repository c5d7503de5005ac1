package oastype

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType        = "invalid_type"
	CodeInvalidFormat      = "invalid_format"
	CodeInvalidSchema      = "invalid_schema"
	CodeFormatUnresolvable = "format_unresolvable"
	CodeRequired           = "required"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrUnknownType        = errors.New("oastype: unknown declared type")
	ErrTypeMismatch       = errors.New("oastype: type mismatch")
	ErrFormatMismatch     = errors.New("oastype: format mismatch")
	ErrFormatUnresolvable = errors.New("oastype: format validator unresolvable")
)

// UnknownTypeError reports a declared type outside the six-member vocabulary.
// It is a schema-authoring defect, never a data problem.
type UnknownTypeError struct {
	Type Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("oastype: type %q is unknown", string(e.Type))
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// TypeMismatchError reports a value whose runtime shape does not satisfy the
// declared type.
type TypeMismatchError struct {
	Type  Type
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("oastype: value %s is not of type %s", describe(e.Value), e.Type)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// FormatMismatchError reports a value that matched its type but was rejected
// by the format validator.
type FormatMismatchError struct {
	Format string
	Type   Type
	Value  any
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("oastype: value %s does not match format %s of type %s", describe(e.Value), e.Format, e.Type)
}

func (e *FormatMismatchError) Is(target error) bool { return target == ErrFormatMismatch }

// FormatUnresolvableError reports a deferred format validator that could not
// be loaded. It is a deployment defect and must not be treated like an
// unregistered format.
type FormatUnresolvableError struct {
	Type   Type
	Format string
	Cause  error
}

func (e *FormatUnresolvableError) Error() string {
	return fmt.Sprintf("oastype: validator for format %s of type %s could not be loaded: %v", e.Format, e.Type, e.Cause)
}

func (e *FormatUnresolvableError) Is(target error) bool { return target == ErrFormatUnresolvable }

func (e *FormatUnresolvableError) Unwrap() error { return e.Cause }

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /items/2/price).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"` // Optional: remediation hints, format names, etc.
	Cause   error  `json:"-"`              // Optional: underlying error.
	// Params carries structured parameters (e.g., {"type":"integer", "got":"12.5"})
	// for i18n and observability.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsDataError reports whether err describes bad data (type or format
// mismatch) rather than a schema or deployment defect.
func IsDataError(err error) bool {
	return errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrFormatMismatch)
}

const maxDescribed = 64

// describe renders a value compactly for error messages.
func describe(v any) string {
	b, err := json.Marshal(v)
	s := string(b)
	if err != nil {
		s = fmt.Sprintf("%v", v)
	}
	if len(s) > maxDescribed {
		s = s[:maxDescribed] + "..."
	}
	return s
}
