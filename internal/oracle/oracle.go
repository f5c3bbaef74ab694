// Package oracle defines the structural type oracle consumed by the
// explorer, plus the catalog-backed implementation used for fixtures and
// search-path lookups.
package oracle

import (
	"errors"
	"fmt"

	"typescope/internal/typeinfo"
)

// ErrNotFound reports a type name the oracle knows nothing about.
var ErrNotFound = errors.New("type not found")

// IsNotFound reports whether err stems from an unknown type name.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Callable describes one static factory or public method: its name, return
// type and ordered parameter type names (fully qualified).
type Callable struct {
	Name    string   `yaml:"name"`
	Returns string   `yaml:"returns"`
	Params  []string `yaml:"params"`
}

// TypeFacts is the oracle's answer for a single type name. Every referenced
// type is given by fully-qualified name; the oracle never resolves
// transitively, that is the explorer's job.
type TypeFacts struct {
	Name   string
	Kind   typeinfo.Kind
	Public bool

	SuperClass    string
	Subclasses    []string
	Interfaces    []string
	SubInterfaces []string
	Implementers  []string

	// Accessible fields, name -> fully-qualified type name.
	Fields map[string]string

	// Ordered parameter lists, one per constructor overload.
	Constructors [][]string

	// Static factories returning the declaring type.
	Factories []Callable

	// Public non-constructor methods (reported for interfaces).
	Methods []Callable
}

// Oracle answers structural queries about one type name at a time. A
// resolution failure for an unknown name must wrap ErrNotFound.
type Oracle interface {
	Resolve(name string) (*TypeFacts, error)
}

// NotFound builds the canonical resolution error for name.
func NotFound(name string) error {
	return fmt.Errorf("resolve %q: %w", name, ErrNotFound)
}
