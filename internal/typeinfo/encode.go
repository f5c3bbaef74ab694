package typeinfo

import (
	"fmt"
	"sort"
	"strings"
)

// Encode renders the descriptor in its canonical JSON form. The key set is
// fixed and kind-independent: inapplicable fields are present as null or as
// empty collections, never omitted. Map keys are emitted in sorted order so
// the encoding is deterministic.
func (d *Descriptor) Encode() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(`"typeName":` + quoteOrNull(d.TypeName))
	sb.WriteString(`,"classType":` + quoteOrNull(string(d.Kind)))
	sb.WriteString(`,"superClassName":` + quoteOrNull(d.SuperClassName))
	sb.WriteString(`,"subClassName":` + encodeList(d.SubClassNames))
	sb.WriteString(`,"interfaces":` + encodeList(d.Interfaces))
	sb.WriteString(`,"subInterfaceName":` + encodeList(d.SubInterfaceNames))
	sb.WriteString(`,"implementedClassName":` + encodeList(d.ImplementerNames))
	sb.WriteString(`,"fields":` + encodeStringMap(d.Fields))
	sb.WriteString(`,"constructors":` + encodeParamsMap(d.Constructors))
	sb.WriteString(`,"builders":` + encodeParamsMap(d.Builders))
	sb.WriteString(`,"methods":` + encodeList(d.Methods))
	sb.WriteString(`,"concreteSubclassConstructors":` + encodeSubclassCtors(d.ConcreteSubclassConstructors))
	sb.WriteString(`,"innerClassName":` + quoteOrNull(d.InnerClassName))
	if d.Dimension > 0 {
		fmt.Fprintf(&sb, `,"dimension":%d`, d.Dimension)
	} else {
		sb.WriteString(`,"dimension":null`)
	}
	sb.WriteByte('}')
	return sb.String()
}

// EncodeAll renders a batch result as an object keyed by type name. Key
// order is sorted; consumers must not rely on it.
func EncodeAll(descriptors map[string]*Descriptor) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range sortedKeys(descriptors) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(name))
		sb.WriteByte(':')
		sb.WriteString(descriptors[name].Encode())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Quote escapes s and wraps it in double quotes. Backslash, quote, newline,
// carriage return, tab, backspace and form feed get their two-character
// escapes; any other control character becomes \u00XX.
func Quote(s string) string {
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

func quoteOrNull(s string) string {
	if s == "" {
		return "null"
	}
	return Quote(s)
}

func encodeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = Quote(s)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func encodeStringMap(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range sortedKeys(m) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(k))
		sb.WriteByte(':')
		sb.WriteString(Quote(m[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// encodeParams renders an ordered param list as {"param0":t0,...}.
func encodeParams(params Params) string {
	if len(params) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, typ := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `"param%d":%s`, i, Quote(typ))
	}
	sb.WriteByte('}')
	return sb.String()
}

func encodeParamsMap(m map[string]Params) string {
	if len(m) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sig := range sortedKeys(m) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(sig))
		sb.WriteByte(':')
		sb.WriteString(encodeParams(m[sig]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func encodeSubclassCtors(m map[string]map[string]Params) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sub := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(sub))
		sb.WriteByte(':')
		sb.WriteString(encodeParamsMap(m[sub]))
	}
	sb.WriteByte('}')
	return sb.String()
}
