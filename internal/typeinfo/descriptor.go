// Package typeinfo defines the uniform structural descriptor produced for
// every type reached during exploration, plus its canonical wire encoding.
package typeinfo

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a descriptor. The wire value is the string itself.
type Kind string

const (
	KindClass         Kind = "class"
	KindAbstractClass Kind = "abstract class"
	KindInterface     Kind = "interface"
	KindArray         Kind = "array"
	KindPrimitive     Kind = "primitive"
	// KindPhantom marks a type that was referenced during closure expansion
	// but could not be resolved by the oracle. Not a hard failure.
	KindPhantom Kind = "phantom"
)

// Params is an ordered parameter type list for one constructor or factory.
// On the wire it is rendered as an object keyed param0..paramN in
// declaration order, so position survives the encoding.
type Params []string

// Descriptor is the structural record for a single type. The zero value of
// every field means "not applicable for this kind"; the encoder renders
// those as null / [] / {} so consumers can parse without branching on kind.
type Descriptor struct {
	TypeName string
	Kind     Kind

	// Class and abstract class.
	SuperClassName string
	SubClassNames  []string
	Interfaces     []string

	// Interface.
	SubInterfaceNames []string
	ImplementerNames  []string

	// Accessible fields, name -> type name.
	Fields map[string]string

	// Constructors and static factories, signature -> ordered params.
	Constructors map[string]Params
	Builders     map[string]Params

	// Public non-constructor method signatures (interfaces).
	Methods []string

	// Abstract class shortcut: public concrete subclass -> its constructors.
	ConcreteSubclassConstructors map[string]map[string]Params

	// Array.
	InnerClassName string
	Dimension      int
}

// NewDescriptor returns a descriptor with all collection fields initialized.
func NewDescriptor(name string, kind Kind) *Descriptor {
	return &Descriptor{
		TypeName:                     name,
		Kind:                         kind,
		SubClassNames:                []string{},
		Interfaces:                   []string{},
		SubInterfaceNames:            []string{},
		ImplementerNames:             []string{},
		Fields:                       map[string]string{},
		Constructors:                 map[string]Params{},
		Builders:                     map[string]Params{},
		Methods:                      []string{},
		ConcreteSubclassConstructors: map[string]map[string]Params{},
	}
}

// Phantom builds the placeholder descriptor for an unresolvable type.
func Phantom(name string) *Descriptor {
	d := NewDescriptor(name, KindPhantom)
	return d
}

func (d *Descriptor) IsInterface() bool     { return d.Kind == KindInterface }
func (d *Descriptor) IsAbstract() bool      { return d.Kind == KindAbstractClass }
func (d *Descriptor) IsConcreteClass() bool { return d.Kind == KindClass }
func (d *Descriptor) IsArray() bool         { return d.Kind == KindArray }
func (d *Descriptor) IsPrimitive() bool     { return d.Kind == KindPrimitive }
func (d *Descriptor) IsPhantom() bool       { return d.Kind == KindPhantom }

// ConstructorSignatures returns the signature keys in sorted order.
func (d *Descriptor) ConstructorSignatures() []string {
	return sortedKeys(d.Constructors)
}

// BuilderSignatures returns the factory signature keys in sorted order.
func (d *Descriptor) BuilderSignatures() []string {
	return sortedKeys(d.Builders)
}

// AllRelatedTypes collects every type name this descriptor references
// through hierarchy edges (not fields or parameters).
func (d *Descriptor) AllRelatedTypes() map[string]struct{} {
	related := make(map[string]struct{})
	if d.SuperClassName != "" {
		related[d.SuperClassName] = struct{}{}
	}
	for _, lists := range [][]string{d.SubClassNames, d.Interfaces, d.SubInterfaceNames, d.ImplementerNames} {
		for _, name := range lists {
			related[name] = struct{}{}
		}
	}
	return related
}

// Summary renders a short human-readable digest, used by CLI verbose output.
func (d *Descriptor) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type: %s\n", orUnknown(d.TypeName))
	fmt.Fprintf(&sb, "Classification: %s\n", orUnknown(string(d.Kind)))
	if d.SuperClassName != "" {
		fmt.Fprintf(&sb, "Superclass: %s\n", d.SuperClassName)
	}
	if len(d.SubClassNames) > 0 {
		fmt.Fprintf(&sb, "Subclasses: %s\n", strings.Join(d.SubClassNames, ", "))
	}
	if len(d.Interfaces) > 0 {
		fmt.Fprintf(&sb, "Implements: %s\n", strings.Join(d.Interfaces, ", "))
	}
	if len(d.ImplementerNames) > 0 {
		fmt.Fprintf(&sb, "Implemented by: %s\n", strings.Join(d.ImplementerNames, ", "))
	}
	if len(d.Constructors) > 0 {
		fmt.Fprintf(&sb, "Constructors: %d\n", len(d.Constructors))
	}
	if len(d.Builders) > 0 {
		fmt.Fprintf(&sb, "Builder methods: %d\n", len(d.Builders))
	}
	if len(d.Fields) > 0 {
		fmt.Fprintf(&sb, "Fields: %d\n", len(d.Fields))
	}
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
