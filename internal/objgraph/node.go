// Package objgraph reflectively serializes a live, possibly cyclic, value
// graph into a structured node tree with a canonical JSON encoding.
package objgraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NodeKind discriminates the node variants of a serialized object graph.
type NodeKind string

const (
	KindNull       NodeKind = "null"
	KindScalar     NodeKind = "scalar"
	KindText       NodeKind = "text"
	KindArray      NodeKind = "array"
	KindCollection NodeKind = "collection"
	KindMap        NodeKind = "map"
	KindObject     NodeKind = "object"
	// KindReference marks a repeat visit to a value already on the visited
	// set: same identity key, no payload.
	KindReference NodeKind = "reference"
	// KindDepthExceeded is the safety sentinel emitted past the depth bound.
	KindDepthExceeded NodeKind = "depth_exceeded"
	// KindAccessDenied marks a field whose value could not be captured.
	KindAccessDenied NodeKind = "access_denied"
)

// Entry is one key/value pair of a serialized map.
type Entry struct {
	Key   *Node
	Value *Node
}

// FieldEntry is one named field of a serialized composite, in declaration
// order.
type FieldEntry struct {
	Name  string
	Value *Node
}

// Node is one vertex of the serialized object graph. Variable carries the
// access path from the root value; Ref is the identity key, present only
// for values that have one (pointers, maps, slices).
type Node struct {
	Kind     NodeKind
	Variable string
	TypeName string
	Ref      string

	// Scalar or text literal.
	Value any

	// Full element count before truncation.
	Length int

	Elements []*Node
	Entries  []Entry
	Fields   []FieldEntry
}

// Encode renders the node tree as JSON. The shape varies by kind; every
// payload-carrying node starts with its variable path and runtime type.
func (n *Node) Encode() string {
	var sb strings.Builder
	n.encode(&sb)
	return sb.String()
}

// MarshalJSON makes nodes embeddable in encoding/json output.
func (n *Node) MarshalJSON() ([]byte, error) {
	return []byte(n.Encode()), nil
}

func (n *Node) encode(sb *strings.Builder) {
	switch n.Kind {
	case KindDepthExceeded:
		sb.WriteString(`{"error":"max_depth_exceeded"}`)
		return
	case KindAccessDenied:
		sb.WriteString(`{"error":"access_denied"}`)
		return
	case KindNull:
		sb.WriteString(`{"variable":` + quote(n.Variable) + `,"value":null}`)
		return
	}

	sb.WriteString(`{"variable":` + quote(n.Variable))
	sb.WriteString(`,"class":` + quote(n.TypeName))
	if n.Ref != "" {
		sb.WriteString(`,"reference":` + quote(n.Ref))
	}

	switch n.Kind {
	case KindReference:
		// Identity only, no payload: the first visit carries the data.
	case KindScalar:
		sb.WriteString(`,"value":` + scalarLiteral(n.Value))
	case KindText:
		sb.WriteString(`,"value":` + quote(fmt.Sprint(n.Value)))
	case KindArray:
		fmt.Fprintf(sb, `,"array":true,"length":%d,"elements":`, n.Length)
		n.encodeElements(sb)
	case KindCollection:
		fmt.Fprintf(sb, `,"collection":true,"size":%d,"elements":`, n.Length)
		n.encodeElements(sb)
	case KindMap:
		fmt.Fprintf(sb, `,"map":true,"size":%d,"entries":[`, n.Length)
		for i, e := range n.Entries {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(`{"key":`)
			e.Key.encode(sb)
			sb.WriteString(`,"value":`)
			e.Value.encode(sb)
			sb.WriteByte('}')
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteString(`,"fields":{`)
		for i, f := range n.Fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(f.Name) + `:`)
			f.Value.encode(sb)
		}
		sb.WriteByte('}')
	}
	sb.WriteByte('}')
}

func (n *Node) encodeElements(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, el := range n.Elements {
		if i > 0 {
			sb.WriteByte(',')
		}
		el.encode(sb)
	}
	sb.WriteByte(']')
}

func scalarLiteral(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		// NaN and the infinities have no JSON number form; render them as
		// strings like complex values.
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return quote(strconv.FormatFloat(x, 'g', -1, 64))
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex128:
		return quote(strconv.FormatComplex(x, 'g', -1, 128))
	default:
		return quote(fmt.Sprint(v))
	}
}

// quote escapes s the same way the descriptor encoder does, so both wire
// formats share one escaping contract.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
