package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config declares additional formats to register on top of (or instead of)
// the built-ins. Each entry sets exactly one of Pattern, Validator or Builtin.
//
//	formats:
//	  - type: string
//	    name: sku
//	    pattern: "^[A-Z]{3}-[0-9]+$"
//	  - type: string
//	    name: phone
//	    validator: e164
//	  - type: integer
//	    name: port
//	    builtin: int32
type Config struct {
	// Builtins registers the built-in formats before the declared ones.
	Builtins bool           `yaml:"builtins" json:"builtins"`
	Formats  []FormatConfig `yaml:"formats" json:"formats"`
}

// FormatConfig declares a single (type, name) entry.
type FormatConfig struct {
	Type      string `yaml:"type" json:"type"`
	Name      string `yaml:"name" json:"name"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Validator string `yaml:"validator,omitempty" json:"validator,omitempty"`
	Builtin   string `yaml:"builtin,omitempty" json:"builtin,omitempty"`
}

var configTypes = map[string]bool{
	"object": true, "array": true, "boolean": true,
	"number": true, "integer": true, "string": true,
}

// ParseConfigYAML decodes a YAML configuration and validates it.
func ParseConfigYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("formats: invalid YAML config: %w", err)
	}
	return &c, c.Validate()
}

// ParseConfigJSON decodes a JSON configuration and validates it.
func ParseConfigJSON(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("formats: invalid JSON config: %w", err)
	}
	return &c, c.Validate()
}

// LoadConfigFile reads a configuration file. Files ending in .json are decoded
// as JSON, everything else as YAML.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formats: read config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseConfigJSON(data)
	}
	return ParseConfigYAML(data)
}

// Validate checks every entry declares a known type, a name and exactly one
// validator source.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[key]bool, len(c.Formats))
	for i, f := range c.Formats {
		if !configTypes[f.Type] {
			errs = append(errs, fmt.Errorf("formats[%d]: unknown type %q", i, f.Type))
		}
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("formats[%d]: name is required", i))
		}
		n := 0
		for _, s := range []string{f.Pattern, f.Validator, f.Builtin} {
			if s != "" {
				n++
			}
		}
		if n != 1 {
			errs = append(errs, fmt.Errorf("formats[%d] %s/%s: exactly one of pattern, validator, builtin is required", i, f.Type, f.Name))
		}
		k := key{f.Type, f.Name}
		if seen[k] {
			errs = append(errs, fmt.Errorf("formats[%d]: %w: %s", i, ErrDuplicate, k))
		}
		seen[k] = true
	}
	return errors.Join(errs...)
}

// Apply registers the configured formats on r.
func (c *Config) Apply(r *Registry) error {
	if c.Builtins {
		if err := RegisterBuiltins(r); err != nil {
			return err
		}
	}
	for _, f := range c.Formats {
		e, err := f.entry()
		if err != nil {
			return err
		}
		if err := r.Register(f.Type, f.Name, e); err != nil {
			return err
		}
	}
	return nil
}

// Build returns a new registry holding the configured formats.
func (c *Config) Build(opts ...Option) (*Registry, error) {
	r := New(opts...)
	if err := c.Apply(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (f FormatConfig) entry() (Entry, error) {
	switch {
	case f.Pattern != "":
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return Entry{}, fmt.Errorf("formats: %s/%s: invalid pattern: %w", f.Type, f.Name, err)
		}
		return Func(Pattern(re)), nil
	case f.Validator != "":
		return Deferred(f.Validator), nil
	case f.Builtin != "":
		p, ok := builtinAny(f.Type, f.Builtin)
		if !ok {
			return Entry{}, fmt.Errorf("formats: %s/%s: unknown builtin %q", f.Type, f.Name, f.Builtin)
		}
		return Func(p), nil
	}
	return Entry{}, fmt.Errorf("%w: %s/%s", ErrInvalidEntry, f.Type, f.Name)
}

// builtinAny prefers the built-in of the same type and falls back to a unique
// built-in name of any type (integer formats aliasing number formats etc.).
func builtinAny(typ, name string) (Predicate, bool) {
	if p, ok := Builtin(typ, name); ok {
		return p, true
	}
	var found Predicate
	for _, b := range builtins {
		if b.name == name {
			if found != nil {
				return nil, false
			}
			found = b.fn
		}
	}
	return found, found != nil
}

// Pattern returns a predicate matching textual values against re. Numbers
// are matched against their decimal text: decoder numbers as decoded, native
// floats in shortest form, so json.Number("3.5") and 3.5 render alike.
func Pattern(re *regexp.Regexp) Predicate {
	return func(v any) bool {
		s, ok := decimalText(v)
		return ok && re.MatchString(s)
	}
}
