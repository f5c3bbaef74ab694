// Package explorer computes the transitive closure of types reachable from
// a root name through inheritance, interface, field and parameter edges,
// producing one descriptor per distinct type.
package explorer

import (
	"fmt"

	"typescope/internal/oracle"
	"typescope/internal/typeinfo"
)

// Explorer drives closure computation against a type oracle. It holds no
// mutable state; every call runs in its own session, so independent
// explorations may run concurrently.
type Explorer struct {
	oracle oracle.Oracle
}

// New creates an explorer over the given oracle.
func New(o oracle.Oracle) *Explorer {
	return &Explorer{oracle: o}
}

// Explore resolves the full closure of a single root. An unknown root is a
// hard failure wrapping oracle.ErrNotFound; types that become unresolvable
// deeper in the closure degrade to phantom descriptors instead.
func (e *Explorer) Explore(root string) (*Repository, error) {
	s := newSession(e.oracle)
	if !s.synthesizable(root) {
		if _, err := e.oracle.Resolve(root); err != nil {
			return nil, fmt.Errorf("explore %s: %w", root, err)
		}
	}
	s.enqueue(root)
	s.drain()
	return s.repository([]string{root}), nil
}

// ExploreAll resolves the closure of several roots in one shared session.
// The lenient policy applies to every root: a root the oracle cannot
// resolve is silently dropped from the result rather than failing the run.
func (e *Explorer) ExploreAll(roots []string) (*Repository, error) {
	s := newSession(e.oracle)
	var resolved []string
	for _, root := range roots {
		if !s.synthesizable(root) {
			if _, err := e.oracle.Resolve(root); err != nil {
				continue
			}
		}
		s.enqueue(root)
		resolved = append(resolved, root)
	}
	s.drain()
	return s.repository(resolved), nil
}

// session is the per-call exploration state: one repository being filled and
// the worklist of pending names. Membership in repo is the memo that
// guarantees termination on cyclic type graphs.
type session struct {
	oracle oracle.Oracle
	repo   map[string]*typeinfo.Descriptor
	queue  []string
}

func newSession(o oracle.Oracle) *session {
	return &session{
		oracle: o,
		repo:   make(map[string]*typeinfo.Descriptor),
	}
}

func (s *session) repository(roots []string) *Repository {
	return &Repository{roots: roots, types: s.repo}
}

func (s *session) enqueue(name string) {
	if name == "" {
		return
	}
	s.queue = append(s.queue, name)
}

func (s *session) drain() {
	for len(s.queue) > 0 {
		name := s.queue[0]
		s.queue = s.queue[1:]
		s.process(name)
	}
}

// synthesizable reports whether name is built locally (primitive or array)
// instead of being asked of the oracle.
func (s *session) synthesizable(name string) bool {
	if isPrimitiveName(name) {
		return true
	}
	_, dims := splitArray(name)
	return dims > 0
}

func (s *session) process(name string) {
	if _, done := s.repo[name]; done {
		return
	}

	if isPrimitiveName(name) {
		s.repo[name] = typeinfo.NewDescriptor(name, typeinfo.KindPrimitive)
		return
	}
	if base, dims := splitArray(name); dims > 0 {
		d := typeinfo.NewDescriptor(name, typeinfo.KindArray)
		d.InnerClassName = base
		d.Dimension = dims
		s.repo[name] = d
		s.enqueue(base)
		return
	}

	facts, err := s.oracle.Resolve(name)
	if err != nil {
		// Unresolvable closure member: phantom placeholder, keep going.
		s.repo[name] = typeinfo.Phantom(name)
		return
	}
	if facts.Kind == typeinfo.KindInterface {
		s.buildInterface(facts)
	} else {
		s.buildClass(facts)
	}
}

func (s *session) buildClass(facts *oracle.TypeFacts) {
	kind := typeinfo.KindClass
	if facts.Kind == typeinfo.KindAbstractClass {
		kind = typeinfo.KindAbstractClass
	}
	d := typeinfo.NewDescriptor(facts.Name, kind)

	if facts.SuperClass != "" {
		d.SuperClassName = facts.SuperClass
		s.enqueue(facts.SuperClass)
	}

	for _, sub := range facts.Subclasses {
		subFacts, err := s.oracle.Resolve(sub)
		if err != nil || !subFacts.Public {
			continue
		}
		d.SubClassNames = append(d.SubClassNames, sub)
		s.enqueue(sub)
	}

	for _, iface := range facts.Interfaces {
		d.Interfaces = append(d.Interfaces, iface)
		s.enqueue(iface)
	}

	for fieldName, fieldType := range facts.Fields {
		d.Fields[fieldName] = fieldType
		s.reference(fieldType)
	}

	for _, params := range facts.Constructors {
		sig := constructorSignature(facts.Name, params)
		d.Constructors[sig] = typeinfo.Params(params)
		for _, p := range params {
			s.reference(p)
		}
	}

	for _, factory := range facts.Factories {
		if factory.Returns != "" && factory.Returns != facts.Name {
			continue
		}
		sig := methodSignature(factory, facts.Name)
		d.Builders[sig] = typeinfo.Params(factory.Params)
		for _, p := range factory.Params {
			s.reference(p)
		}
	}

	if kind == typeinfo.KindAbstractClass {
		s.attachConcreteSubclassConstructors(d)
	}

	s.repo[facts.Name] = d
}

// attachConcreteSubclassConstructors builds the buildable-alternatives index
// of an abstract class: each public concrete subclass mapped to its own
// constructor map, so consumers need not re-walk the subclass tree.
func (s *session) attachConcreteSubclassConstructors(d *typeinfo.Descriptor) {
	for _, sub := range d.SubClassNames {
		subFacts, err := s.oracle.Resolve(sub)
		if err != nil {
			continue
		}
		if subFacts.Kind != typeinfo.KindClass || !subFacts.Public {
			continue
		}
		if len(subFacts.Constructors) == 0 {
			continue
		}
		ctors := make(map[string]typeinfo.Params, len(subFacts.Constructors))
		for _, params := range subFacts.Constructors {
			ctors[constructorSignature(sub, params)] = typeinfo.Params(params)
		}
		d.ConcreteSubclassConstructors[sub] = ctors
	}
}

func (s *session) buildInterface(facts *oracle.TypeFacts) {
	d := typeinfo.NewDescriptor(facts.Name, typeinfo.KindInterface)

	for _, sub := range facts.SubInterfaces {
		d.SubInterfaceNames = append(d.SubInterfaceNames, sub)
		s.enqueue(sub)
	}
	for _, impl := range facts.Implementers {
		d.ImplementerNames = append(d.ImplementerNames, impl)
		s.enqueue(impl)
	}
	for fieldName, fieldType := range facts.Fields {
		d.Fields[fieldName] = fieldType
		s.reference(fieldType)
	}
	for _, m := range facts.Methods {
		d.Methods = append(d.Methods, methodSignature(m, facts.Name))
	}

	s.repo[facts.Name] = d
}

// reference records a field or parameter edge to a type name: the name is
// enqueued, and if its base resolves to an interface or abstract class, the
// known implementers/subclasses are enqueued as well. Downstream consumers
// need concrete, instantiable alternatives, not just the abstract contract.
func (s *session) reference(name string) {
	s.enqueue(name)

	base, _ := splitArray(name)
	if isPrimitiveName(base) {
		return
	}
	facts, err := s.oracle.Resolve(base)
	if err != nil {
		return
	}
	switch facts.Kind {
	case typeinfo.KindInterface:
		for _, impl := range facts.Implementers {
			if _, done := s.repo[impl]; !done {
				s.enqueue(impl)
			}
		}
	case typeinfo.KindAbstractClass:
		for _, sub := range facts.Subclasses {
			if _, done := s.repo[sub]; !done {
				s.enqueue(sub)
			}
		}
	}
}
