package formats

import (
	"math"
	"math/big"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Type names the built-in formats are registered under.
const (
	typeString  = "string"
	typeNumber  = "number"
	typeInteger = "integer"
)

type builtin struct {
	typ  string
	name string
	fn   Predicate
}

// builtins are the OpenAPI 3 data type formats plus the common string formats
// of JSON Schema.
var builtins = []builtin{
	{typeString, "byte", stringFormat(strfmtValidates("byte"))},
	{typeString, "date", stringFormat(strfmt.IsDate)},
	{typeString, "date-time", stringFormat(IsDateTime)},
	{typeString, "duration", stringFormat(strfmt.IsDuration)},
	{typeString, "email", stringFormat(strfmt.IsEmail)},
	{typeString, "hostname", stringFormat(strfmt.IsHostname)},
	{typeString, "ipv4", stringFormat(strfmtValidates("ipv4"))},
	{typeString, "ipv6", stringFormat(strfmtValidates("ipv6"))},
	{typeString, "cidr", stringFormat(strfmtValidates("cidr"))},
	{typeString, "mac", stringFormat(strfmtValidates("mac"))},
	{typeString, "uri", stringFormat(strfmtValidates("uri"))},
	{typeString, "uuid", stringFormat(IsUUID)},

	{typeNumber, "float", isFloat},
	{typeNumber, "double", isDouble},

	{typeInteger, "int32", intRange(math.MinInt32, math.MaxInt32)},
	{typeInteger, "int64", intRange(math.MinInt64, math.MaxInt64)},
}

// RegisterBuiltins registers every built-in format on r.
func RegisterBuiltins(r *Registry) error {
	for _, b := range builtins {
		if err := r.Register(b.typ, b.name, Func(b.fn)); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a new registry populated with the built-in formats.
func Default(opts ...Option) *Registry {
	r := New(opts...)
	if err := RegisterBuiltins(r); err != nil {
		panic(err)
	}
	return r
}

// Builtin returns the built-in predicate registered for (typ, name).
func Builtin(typ, name string) (Predicate, bool) {
	for _, b := range builtins {
		if b.typ == typ && b.name == name {
			return b.fn, true
		}
	}
	return nil, false
}

func stringFormat(f func(string) bool) Predicate {
	return func(v any) bool {
		s, ok := text(v)
		return ok && f(s)
	}
}

func strfmtValidates(name string) func(string) bool {
	return func(s string) bool { return strfmt.Default.Validates(name, s) }
}

// IsUUID reports whether s is a UUID in its canonical hyphenated form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isFloat(v any) bool {
	f, ok := floatValue(v)
	if !ok {
		return false
	}
	return math.IsNaN(f) || math.Abs(f) <= math.MaxFloat32
}

func isDouble(v any) bool {
	f, ok := floatValue(v)
	return ok && !math.IsInf(f, 0)
}

func intRange(lo, hi int64) Predicate {
	lower, upper := big.NewInt(lo), big.NewInt(hi)
	return func(v any) bool {
		i, ok := integerValue(v)
		return ok && i.Cmp(lower) >= 0 && i.Cmp(upper) <= 0
	}
}
