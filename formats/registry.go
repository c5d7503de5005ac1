package formats

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// Predicate reports whether v satisfies a format.
type Predicate func(v any) bool

// Entry is a registered format validator. It either holds a predicate ready to
// call (Func) or the identifier of a validator that the registry's Loader
// resolves on first use (Deferred).
type Entry struct {
	fn Predicate
	id string
}

// Func returns an Entry that invokes p directly.
func Func(p Predicate) Entry { return Entry{fn: p} }

// Deferred returns an Entry resolved by the registry's Loader on first lookup.
func Deferred(id string) Entry { return Entry{id: id} }

// IsDeferred reports whether the entry is resolved lazily.
func (e Entry) IsDeferred() bool { return e.fn == nil }

// ID returns the loader identifier of a deferred entry ("" for Func entries).
func (e Entry) ID() string { return e.id }

func (e Entry) valid() bool { return e.fn != nil || e.id != "" }

// Loader resolves a deferred entry identifier into a predicate.
type Loader interface {
	Load(id string) (Predicate, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(id string) (Predicate, error)

func (f LoaderFunc) Load(id string) (Predicate, error) { return f(id) }

var (
	ErrFrozen       = errors.New("formats: registry is frozen")
	ErrDuplicate    = errors.New("formats: format already registered")
	ErrInvalidEntry = errors.New("formats: entry has neither predicate nor identifier")
	ErrNoLoader     = errors.New("formats: no loader configured")
	ErrNotFound     = errors.New("formats: validator not found")
)

// Option configures a Registry.
type Option func(*Registry)

// WithLoader sets the Loader used to resolve deferred entries.
func WithLoader(l Loader) Option { return func(r *Registry) { r.loader = l } }

type key struct{ typ, name string }

func (k key) String() string { return k.typ + "/" + k.name }

type resolution struct {
	fn  Predicate
	err error
}

// Registry maps (type, format name) pairs to validator entries.
//
// Entries are registered during initialization. Freeze seals the table; after
// that the only mutation is the memoized resolution of deferred entries, which
// is safe for concurrent use and loads each identifier at most once.
type Registry struct {
	mu       sync.RWMutex
	entries  map[key]Entry
	resolved map[key]resolution
	loader   Loader
	frozen   atomic.Bool
	group    singleflight.Group
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[key]Entry),
		resolved: make(map[key]resolution),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds an entry for (typ, name).
func (r *Registry) Register(typ, name string, e Entry) error {
	if !e.valid() {
		return fmt.Errorf("%w: %s/%s", ErrInvalidEntry, typ, name)
	}
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %s/%s", ErrFrozen, typ, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{typ, name}
	if _, ok := r.entries[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, k)
	}
	r.entries[k] = e
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(typ, name string, e Entry) {
	if err := r.Register(typ, name, e); err != nil {
		panic(err)
	}
}

// Freeze seals the registry against further registration. It is idempotent.
func (r *Registry) Freeze() { r.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Lookup returns the predicate registered for (typ, name).
//
// ok is false when nothing is registered for the pair. A non-nil error means
// the pair is registered as a deferred entry that could not be resolved; the
// failure is cached like a success so the loader is not retried.
func (r *Registry) Lookup(typ, name string) (p Predicate, ok bool, err error) {
	k := key{typ, name}
	r.mu.RLock()
	e, ok := r.entries[k]
	if !ok {
		r.mu.RUnlock()
		return nil, false, nil
	}
	if !e.IsDeferred() {
		r.mu.RUnlock()
		return e.fn, true, nil
	}
	res, cached := r.resolved[k]
	r.mu.RUnlock()
	if cached {
		return res.fn, true, res.err
	}

	v, _, _ := r.group.Do(k.String(), func() (any, error) {
		r.mu.RLock()
		res, cached := r.resolved[k]
		r.mu.RUnlock()
		if cached {
			return res, nil
		}
		res = r.resolve(e)
		r.mu.Lock()
		r.resolved[k] = res
		r.mu.Unlock()
		return res, nil
	})
	res = v.(resolution)
	return res.fn, true, res.err
}

func (r *Registry) resolve(e Entry) resolution {
	if r.loader == nil {
		return resolution{err: fmt.Errorf("%w: %q", ErrNoLoader, e.id)}
	}
	fn, err := r.loader.Load(e.id)
	if err != nil {
		return resolution{err: fmt.Errorf("formats: resolve %q: %w", e.id, err)}
	}
	if fn == nil {
		return resolution{err: fmt.Errorf("formats: resolve %q: %w", e.id, ErrNotFound)}
	}
	return resolution{fn: fn}
}

// Warm resolves every deferred entry up front and returns the joined
// resolution errors. Useful at startup to surface deployment defects early.
func (r *Registry) Warm() error {
	var errs []error
	for _, reg := range r.List() {
		if !reg.Entry.IsDeferred() {
			continue
		}
		if _, _, err := r.Lookup(reg.Type, reg.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Registration describes one registered pair.
type Registration struct {
	Type  string
	Name  string
	Entry Entry
}

// List returns all registrations ordered by type then name.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	out := make([]Registration, 0, len(r.entries))
	for k, e := range r.entries {
		out = append(out, Registration{Type: k.typ, Name: k.name, Entry: e})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the format names registered for typ in sorted order.
func (r *Registry) Names(typ string) []string {
	var names []string
	for _, reg := range r.List() {
		if reg.Type == typ {
			names = append(names, reg.Name)
		}
	}
	return names
}
