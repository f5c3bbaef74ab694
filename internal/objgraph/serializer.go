package objgraph

import (
	"fmt"
	"reflect"
	"sort"
)

const (
	DefaultMaxDepth    = 10
	DefaultMaxElements = 100
)

// Serializer walks arbitrary runtime values by reflection, with no
// cooperation required from the value's own type. Depth and element bounds
// are safety valves: exceeding them truncates the output, it is not an
// error.
type Serializer struct {
	maxDepth    int
	maxElements int
}

// New creates a serializer; non-positive bounds fall back to the defaults.
func New(maxDepth, maxElements int) *Serializer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxElements <= 0 {
		maxElements = DefaultMaxElements
	}
	return &Serializer{maxDepth: maxDepth, maxElements: maxElements}
}

// Serialize renders v into a node tree rooted at the given variable label.
// The visited set lives for exactly this call.
func (s *Serializer) Serialize(v any, label string) *Node {
	visited := make(map[uintptr]struct{})
	return s.walk(reflect.ValueOf(v), label, visited, 0)
}

// Serialize is the package-level convenience using default bounds.
func Serialize(v any, label string) *Node {
	return New(0, 0).Serialize(v, label)
}

func (s *Serializer) walk(v reflect.Value, label string, visited map[uintptr]struct{}, depth int) *Node {
	if depth > s.maxDepth {
		return &Node{Kind: KindDepthExceeded, Variable: label}
	}
	if !v.IsValid() {
		return &Node{Kind: KindNull, Variable: label}
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return &Node{Kind: KindNull, Variable: label}
		}
		return s.walk(v.Elem(), label, visited, depth)

	case reflect.Pointer:
		if v.IsNil() {
			return &Node{Kind: KindNull, Variable: label}
		}
		// Zero-size allocations share one runtime address, so distinct
		// values would collide in the visited set. They cannot form a
		// cycle, so they get no identity at all.
		if v.Type().Elem().Size() == 0 {
			return s.walk(v.Elem(), label, visited, depth)
		}
		id := v.Pointer()
		if _, seen := visited[id]; seen {
			return &Node{
				Kind:     KindReference,
				Variable: label,
				TypeName: v.Type().String(),
				Ref:      refKey(id),
			}
		}
		visited[id] = struct{}{}
		n := s.walk(v.Elem(), label, visited, depth)
		if n.Ref == "" {
			n.Ref = refKey(id)
		}
		return n

	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return &Node{
			Kind:     KindScalar,
			Variable: label,
			TypeName: v.Type().String(),
			Value:    scalarValue(v),
		}

	case reflect.String:
		return &Node{
			Kind:     KindText,
			Variable: label,
			TypeName: v.Type().String(),
			Value:    v.String(),
		}

	case reflect.Array:
		return s.walkSequence(v, label, visited, depth, KindArray, "")

	case reflect.Slice:
		if v.IsNil() {
			return &Node{Kind: KindNull, Variable: label}
		}
		// Empty slices share the zero-size allocation address and cannot
		// cycle; track identity only when there are elements to revisit.
		if v.Len() == 0 {
			return s.walkSequence(v, label, visited, depth, KindCollection, "")
		}
		id := v.Pointer()
		if _, seen := visited[id]; seen {
			return &Node{Kind: KindReference, Variable: label, TypeName: v.Type().String(), Ref: refKey(id)}
		}
		visited[id] = struct{}{}
		return s.walkSequence(v, label, visited, depth, KindCollection, refKey(id))

	case reflect.Map:
		return s.walkMap(v, label, visited, depth)

	case reflect.Struct:
		return s.walkStruct(v, label, visited, depth)

	default:
		// Chan, Func, UnsafePointer: no readable value representation.
		return &Node{Kind: KindAccessDenied, Variable: label, TypeName: v.Type().String()}
	}
}

func (s *Serializer) walkSequence(v reflect.Value, label string, visited map[uintptr]struct{}, depth int, kind NodeKind, ref string) *Node {
	n := &Node{
		Kind:     kind,
		Variable: label,
		TypeName: v.Type().String(),
		Ref:      ref,
		Length:   v.Len(),
	}
	limit := v.Len()
	if limit > s.maxElements {
		// Excess elements are silently dropped.
		limit = s.maxElements
	}
	for i := 0; i < limit; i++ {
		elemLabel := fmt.Sprintf("%s[%d]", label, i)
		n.Elements = append(n.Elements, s.walk(v.Index(i), elemLabel, visited, depth+1))
	}
	return n
}

func (s *Serializer) walkMap(v reflect.Value, label string, visited map[uintptr]struct{}, depth int) *Node {
	if v.IsNil() {
		return &Node{Kind: KindNull, Variable: label}
	}
	id := v.Pointer()
	if _, seen := visited[id]; seen {
		return &Node{Kind: KindReference, Variable: label, TypeName: v.Type().String(), Ref: refKey(id)}
	}
	visited[id] = struct{}{}

	n := &Node{
		Kind:     KindMap,
		Variable: label,
		TypeName: v.Type().String(),
		Ref:      refKey(id),
		Length:   v.Len(),
	}

	// Go map iteration order is randomized; sort keys by display form so the
	// encoding is stable.
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})

	count := 0
	for _, key := range keys {
		if count >= s.maxElements {
			break
		}
		entry := Entry{
			Key:   s.walk(key, fmt.Sprintf("%s.key%d", label, count), visited, depth+1),
			Value: s.walk(v.MapIndex(key), fmt.Sprintf("%s.value%d", label, count), visited, depth+1),
		}
		n.Entries = append(n.Entries, entry)
		count++
	}
	return n
}

func (s *Serializer) walkStruct(v reflect.Value, label string, visited map[uintptr]struct{}, depth int) *Node {
	n := &Node{
		Kind:     KindObject,
		Variable: label,
		TypeName: v.Type().String(),
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		fieldLabel := label + "." + name
		n.Fields = append(n.Fields, FieldEntry{
			Name:  name,
			Value: s.walk(v.Field(i), fieldLabel, visited, depth+1),
		})
	}
	return n
}

// scalarValue extracts a literal through kind-specific accessors, which work
// even for values obtained from unexported fields.
func scalarValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Complex64, reflect.Complex128:
		return v.Complex()
	default:
		return nil
	}
}

func refKey(id uintptr) string {
	return fmt.Sprintf("@%d", id)
}
