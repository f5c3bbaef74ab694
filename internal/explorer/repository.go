package explorer

import (
	"sort"

	"typescope/internal/typeinfo"
)

// Repository holds every descriptor produced by one exploration run. It is
// scoped to that run: a new call builds a new repository, nothing is cached
// across calls.
type Repository struct {
	roots []string
	types map[string]*typeinfo.Descriptor
}

// Descriptor looks up one type by fully-qualified name.
func (r *Repository) Descriptor(name string) (*typeinfo.Descriptor, bool) {
	d, ok := r.types[name]
	return d, ok
}

// Root returns the descriptor of the first requested root, or nil if that
// root did not resolve.
func (r *Repository) Root() *typeinfo.Descriptor {
	if len(r.roots) == 0 {
		return nil
	}
	return r.types[r.roots[0]]
}

// RootDescriptors maps each requested root that resolved to its descriptor.
// Roots dropped during lenient batch exploration are absent.
func (r *Repository) RootDescriptors() map[string]*typeinfo.Descriptor {
	out := make(map[string]*typeinfo.Descriptor, len(r.roots))
	for _, root := range r.roots {
		if d, ok := r.types[root]; ok {
			out[root] = d
		}
	}
	return out
}

// All returns a copy of the full closure, name -> descriptor.
func (r *Repository) All() map[string]*typeinfo.Descriptor {
	out := make(map[string]*typeinfo.Descriptor, len(r.types))
	for name, d := range r.types {
		out[name] = d
	}
	return out
}

// Names lists every explored type name in sorted order.
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of descriptors in the closure.
func (r *Repository) Len() int { return len(r.types) }
