package formats

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestBuiltins(t *testing.T) {
	r := Default()
	r.Freeze()

	tests := []struct {
		typ, name string
		value     any
		want      bool
	}{
		{"string", "date-time", "2024-01-01T10:00:00Z", true},
		{"string", "date-time", "2024-01-01T10:00:00.123456+09:00", true},
		{"string", "date-time", "2024-01-01", false},
		{"string", "date-time", "not-a-date", false},
		{"string", "date", "2024-02-29", true},
		{"string", "date", "2024-13-01", false},
		{"string", "uuid", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", true},
		{"string", "uuid", "3f2504e04f8911d39a0c0305e82c3301", false},
		{"string", "uuid", "nope", false},
		{"string", "email", "dev@example.com", true},
		{"string", "email", "dev.example.com", false},
		{"string", "ipv4", "192.168.0.1", true},
		{"string", "ipv4", "::1", false},
		{"string", "ipv6", "::1", true},
		{"string", "hostname", "api.example.com", true},
		{"string", "byte", "aGVsbG8=", true},
		{"string", "uri", "https://example.com/a?b=c", true},
		{"integer", "int32", 42, true},
		{"integer", "int32", int64(1) << 40, false},
		{"integer", "int32", "-2147483648", true},
		{"integer", "int32", "2147483648", false},
		{"integer", "int64", json.Number("9223372036854775807"), true},
		{"integer", "int64", "9223372036854775808", false},
		{"integer", "int64", new(big.Int).Lsh(big.NewInt(1), 70), false},
		{"integer", "int64", uint64(1) << 63, false},
		{"number", "float", 3.14, true},
		{"number", "float", 1e300, false},
		{"number", "double", "2e10", true},
		{"number", "double", json.Number("1e400"), false},
		{"integer", "int32", (*json.Number)(nil), false},
		{"integer", "int64", (*big.Int)(nil), false},
		{"number", "float", (*json.Number)(nil), false},
		{"number", "double", (*big.Float)(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.name, func(t *testing.T) {
			p, ok, err := r.Lookup(tt.typ, tt.name)
			if err != nil || !ok {
				t.Fatalf("builtin %s/%s not registered: %v", tt.typ, tt.name, err)
			}
			if got := p(tt.value); got != tt.want {
				t.Fatalf("%s/%s(%v) = %v, want %v", tt.typ, tt.name, tt.value, got, tt.want)
			}
		})
	}
}

func TestBuiltin_UnknownPair(t *testing.T) {
	if _, ok := Builtin("number", "date-time"); ok {
		t.Fatalf("date-time must not be a number format")
	}
	if _, ok := Builtin("string", "uuid"); !ok {
		t.Fatalf("expected string/uuid builtin")
	}
}

func TestStringFormat_RejectsNonText(t *testing.T) {
	p, _ := Builtin("string", "uuid")
	if p(12) {
		t.Fatalf("string formats must reject non-text values")
	}
}
