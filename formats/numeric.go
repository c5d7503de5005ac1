package formats

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// numberText matches json.Number and compatible decoder number types.
type numberText interface {
	String() string
	Float64() (float64, error)
}

// asNumber returns v as a decoder number type, rejecting typed nil pointers
// such as (*json.Number)(nil).
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

// text returns the string behind v when v is textual (any string kind that is
// not a decoder number type).
func text(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if _, ok := v.(numberText); ok {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// integerValue converts integer-shaped values (native ints, big.Int, integer
// text, integral floats) into a big.Int.
func integerValue(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return n, true
	}
	if n, ok := asNumber(v); ok {
		if i, ok := parseInteger(n.String()); ok {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return floatInteger(f)
	}
	if s, ok := text(v); ok {
		return parseInteger(s)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return floatInteger(rv.Float())
	}
	return nil, false
}

func floatInteger(f float64) (*big.Int, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil, false
	}
	i, _ := big.NewFloat(f).Int(nil)
	return i, true
}

func parseInteger(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "+")
	i, ok := new(big.Int).SetString(s, 10)
	return i, ok
}

// floatValue converts numeric values and numeric text into a float64. The
// boolean is false when v is not numeric at all; an out-of-range value is
// reported as ±Inf.
func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case *big.Float:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	case *big.Rat:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	}
	if n, ok := asNumber(v); ok {
		return parseFloat(n.String())
	}
	if s, ok := text(v); ok {
		return parseFloat(s)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// decimalText renders textual and numeric values for pattern matching.
func decimalText(v any) (string, bool) {
	if s, ok := text(v); ok {
		return s, true
	}
	if n, ok := asNumber(v); ok {
		return n.String(), true
	}
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return "", false
		}
		return n.String(), true
	case *big.Float:
		if n == nil {
			return "", false
		}
		return n.Text('g', -1), true
	case *big.Rat:
		if n == nil {
			return "", false
		}
		return n.RatString(), true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// ParseFloat returns ±Inf together with ErrRange on overflow.
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
