package oastype

// Type is a declared primitive schema type.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeString  Type = "string"
)

// Types returns the closed set of declared types.
func Types() []Type {
	return []Type{TypeObject, TypeArray, TypeBoolean, TypeNumber, TypeInteger, TypeString}
}

// Known reports whether t belongs to the declared type vocabulary.
func (t Type) Known() bool {
	switch t {
	case TypeObject, TypeArray, TypeBoolean, TypeNumber, TypeInteger, TypeString:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	// NumberJSONNumber assumes the decoder kept integers and floats apart
	// (json.Number, native ints). Floats never satisfy "integer".
	NumberJSONNumber NumberMode = iota
	// NumberFloat64 is for decoders that turn every number into float64.
	// Integral floats then satisfy "integer".
	NumberFloat64
)
