package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
)

// Catalog is a Loader backed by named predicate factories. It is the usual way
// to ship validators that are expensive to build (compiled patterns, lookup
// tables) without paying for them until a schema actually uses the format.
type Catalog map[string]func() Predicate

func (c Catalog) Load(id string) (Predicate, error) {
	f, ok := c[id]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return f(), nil
}

// Chain tries each loader in order and returns the first predicate found.
// Loaders signal "not mine" by returning an error wrapping ErrNotFound; any
// other error stops the chain.
func Chain(loaders ...Loader) Loader {
	return LoaderFunc(func(id string) (Predicate, error) {
		for _, l := range loaders {
			p, err := l.Load(id)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	})
}

// DefaultPluginSymbol is the symbol PluginLoader looks up when Symbol is empty.
const DefaultPluginSymbol = "Validate"

// PluginLoader loads validators from Go plugins. The identifier "phone"
// resolves to <Dir>/phone.so, which must export a symbol (Validate by default)
// of type func(any) bool or Predicate.
type PluginLoader struct {
	Dir    string
	Symbol string
}

func (l PluginLoader) Load(id string) (Predicate, error) {
	path := filepath.Join(l.Dir, id+".so")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}
	name := l.Symbol
	if name == "" {
		name = DefaultPluginSymbol
	}
	sym, err := p.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("lookup symbol: %w", err)
	}
	// Functions come back as values, variables as pointers to the variable.
	switch fn := sym.(type) {
	case func(any) bool:
		return fn, nil
	case *func(any) bool:
		return *fn, nil
	case Predicate:
		return fn, nil
	case *Predicate:
		return *fn, nil
	default:
		return nil, fmt.Errorf("symbol %s in %s has unsupported type %T", name, path, sym)
	}
}
