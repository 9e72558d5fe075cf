package format

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Lookup resolves placeholder names to values.
//
// Implementations must be free of side effects and return the same value
// for the same name during a render. A name that is not known must be
// reported with [NotFound]. A Lookup shared by concurrent renders must be
// safe for concurrent use.
type Lookup interface {
	Lookup(name string) (Value, error)
}

// Namer is implemented by lookups that can enumerate the names they know.
type Namer interface {
	Names() []string
}

// Names returns the names known to l, or nil if l does not implement
// [Namer].
func Names(l Lookup) []string {
	if n, ok := l.(Namer); ok {
		return n.Names()
	}

	return nil
}

// LookupFunc adapts a function to the [Lookup] interface.
type LookupFunc func(name string) (Value, error)

// Lookup calls f(name).
func (f LookupFunc) Lookup(name string) (Value, error) { return f(name) }

// Map is a [Lookup] backed by a map of names to values.
type Map map[string]Value

// MapOf converts a map of native Go values with [ValueOf].
func MapOf(values map[string]any) (Map, error) {
	m := make(Map, len(values))

	for name, x := range values {
		v, err := ValueOf(x)
		if err != nil {
			return nil, WrapError(err).With(slog.String("name", name))
		}

		m[name] = v
	}

	return m, nil
}

// Lookup returns the value stored under name.
func (m Map) Lookup(name string) (Value, error) {
	v, ok := m[name]
	if !ok {
		return Value{}, NotFound(name)
	}

	return v, nil
}

// Names returns the keys of m in sorted order.
func (m Map) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// Fields maps field names of a record type T to accessors.
// It is the hand-written form of the adapters produced by lookupgen.
type Fields[T any] map[string]func(T) Value

// Bind returns a [Lookup] over rec. Names outside f are not found.
func (f Fields[T]) Bind(rec T) Lookup {
	return boundFields[T]{fields: f, rec: rec}
}

type boundFields[T any] struct {
	fields Fields[T]
	rec    T
}

func (b boundFields[T]) Lookup(name string) (Value, error) {
	get, ok := b.fields[name]
	if !ok {
		return Value{}, NotFound(name)
	}

	return get(b.rec), nil
}

func (b boundFields[T]) Names() []string {
	return slices.Sorted(maps.Keys(b.fields))
}

// Chain is a [Lookup] that consults each lookup in order. The first lookup
// that knows a name wins, so earlier lookups shadow later ones. Errors other
// than not-found stop the search.
type Chain []Lookup

// Lookup implements [Lookup].
func (c Chain) Lookup(name string) (Value, error) {
	for _, l := range c {
		if l == nil {
			continue
		}

		v, err := l.Lookup(name)
		if err == nil {
			return v, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return Value{}, err
		}
	}

	return Value{}, NotFound(name)
}

// Names returns the sorted union of the names known to each lookup.
func (c Chain) Names() []string {
	seen := make(map[string]struct{})

	for _, l := range c {
		for _, name := range Names(l) {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Environ returns a [Map] of String values from environment entries of the
// form "key=value", as returned by [os.Environ]. Entries without '=' are
// ignored; later entries replace earlier ones.
func Environ(env []string) Map {
	m := make(Map, len(env))

	for _, kv := range env {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}

		m[key] = String(val)
	}

	return m
}
