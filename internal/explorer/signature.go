package explorer

import (
	"fmt"
	"strings"

	"typescope/internal/oracle"
)

// primitiveNames covers the scalar type names the explorer synthesizes
// without consulting the oracle. Both the JVM-style and Go-style spellings
// are recognized so catalogs from either world work unchanged.
var primitiveNames = map[string]struct{}{
	"boolean": {}, "byte": {}, "char": {}, "short": {}, "int": {},
	"long": {}, "float": {}, "double": {}, "void": {},
	"bool": {}, "string": {}, "rune": {},
	"int8": {}, "int16": {}, "int32": {}, "int64": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
	"float32": {}, "float64": {}, "complex64": {}, "complex128": {},
}

func isPrimitiveName(name string) bool {
	_, ok := primitiveNames[name]
	return ok
}

// splitArray strips trailing [] pairs from a type name, returning the base
// element name and the dimension count (0 for non-array names).
func splitArray(name string) (base string, dims int) {
	base = name
	for strings.HasSuffix(base, "[]") {
		base = base[:len(base)-2]
		dims++
	}
	return base, dims
}

// simpleName drops the package/namespace qualifier from a type name.
func simpleName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// constructorSignature builds the deterministic signature key for one
// constructor overload: Short(paramType param0,paramType param1).
// Parameter types are simplified, so two overloads whose parameters
// simplify identically collide; the last one processed wins.
func constructorSignature(declaring string, params []string) string {
	var sb strings.Builder
	sb.WriteString(simpleName(declaring))
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s param%d", simpleName(p), i)
	}
	sb.WriteByte(')')
	return sb.String()
}

// methodSignature builds the signature key for a factory or method:
// retType name(paramType param0,...), all type names simplified.
func methodSignature(c oracle.Callable, declaring string) string {
	returns := c.Returns
	if returns == "" {
		returns = declaring
	}
	var sb strings.Builder
	sb.WriteString(simpleName(returns))
	sb.WriteByte(' ')
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s param%d", simpleName(p), i)
	}
	sb.WriteByte(')')
	return sb.String()
}
