package oastype

import (
	"math"
	"math/big"
	"reflect"
	"regexp"
)

var (
	boolText    = regexp.MustCompile(`(?i)^(true|false)$`)
	integerText = regexp.MustCompile(`^[-+]?\d+$`)
	// numericText follows the usual "is numeric" rule: optional surrounding
	// whitespace, sign, decimal digits with optional fraction and exponent.
	numericText = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)
)

// numberText matches json.Number and compatible decoder number types.
type numberText interface {
	String() string
	Float64() (float64, error)
}

// indirect unwraps pointers and interfaces. ok is false for nil.
func indirect(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, true
}

// asNumber returns v as a decoder number type. A typed nil pointer such as
// (*json.Number)(nil) carries no number.
func asNumber(v any) (numberText, bool) {
	n, ok := v.(numberText)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return n, true
}

// isBig reports a non-nil math/big value.
func isBig(v any) bool {
	switch n := v.(type) {
	case *big.Int:
		return n != nil
	case *big.Float:
		return n != nil
	case *big.Rat:
		return n != nil
	case big.Int, big.Float, big.Rat:
		return true
	}
	return false
}

// isObject reports a key-value structure: a map that is not list-shaped
// (including the empty map) or a struct.
func isObject(v any) bool {
	if isBig(v) {
		return false
	}
	rv, ok := indirect(v)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return !isListMap(rv)
	case reflect.Struct:
		return true
	}
	return false
}

// isArray reports an ordered sequence: slices, arrays, and maps whose keys are
// exactly the integers 0..n-1.
func isArray(v any) bool {
	rv, ok := indirect(v)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	case reflect.Map:
		return isListMap(rv)
	}
	return false
}

// isListMap reports whether a map is a sequence in disguise: non-empty, keyed
// by an integer kind, with keys covering 0..n-1. String keys are always
// associative, even when they spell numbers.
func isListMap(rv reflect.Value) bool {
	n := rv.Len()
	if n == 0 {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		for k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}
		var idx uint64
		switch k.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := k.Int()
			if i < 0 {
				return false
			}
			idx = uint64(i)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			idx = k.Uint()
		default:
			return false
		}
		// Keys are unique, so n keys all below n cover 0..n-1.
		if idx >= uint64(n) {
			return false
		}
	}
	return true
}

func isBool(v any) bool {
	rv, ok := indirect(v)
	return ok && rv.Kind() == reflect.Bool
}

// asText returns the string behind v when v is textual. Decoder number types
// such as json.Number are numbers, not text.
func asText(v any) (string, bool) {
	if _, ok := v.(numberText); ok {
		return "", false
	}
	rv, ok := indirect(v)
	if !ok || rv.Kind() != reflect.String {
		return "", false
	}
	if _, ok := rv.Interface().(numberText); ok {
		return "", false
	}
	return rv.String(), true
}

// isNumeric reports a value that is numeric in nature without coercion.
func isNumeric(v any) bool {
	if isBig(v) {
		return true
	}
	if n, ok := asNumber(v); ok {
		return numericText.MatchString(n.String())
	}
	rv, ok := indirect(v)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isInteger reports a native integer. Decoder number types count when their
// text is integral; floats count only in NumberFloat64 mode.
func isInteger(v any, mode NumberMode) bool {
	switch n := v.(type) {
	case *big.Int:
		return n != nil
	case big.Int:
		return true
	}
	if n, ok := asNumber(v); ok {
		if integerText.MatchString(n.String()) {
			return true
		}
		if mode != NumberFloat64 {
			return false
		}
		f, err := n.Float64()
		return err == nil && integral(f)
	}
	rv, ok := indirect(v)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Float32, reflect.Float64:
		if mode != NumberFloat64 {
			return false
		}
		return integral(rv.Float())
	}
	return false
}

func integral(f float64) bool { return !math.IsInf(f, 0) && f == math.Trunc(f) }
