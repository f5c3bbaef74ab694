package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"typescope/internal/oracle"
	"typescope/internal/typeinfo"
)

// BuildCatalog turns the raw per-file harvest into a resolvable catalog:
// names are qualified, embedded types are classified as superclass or
// interface edges, inverse edges (subclasses, implementers, subinterfaces)
// are indexed, and constructor/factory functions are attached to the types
// they build.
func BuildCatalog(files []*FileFacts) *oracle.Catalog {
	b := &catalogBuilder{
		facts: make(map[string]*oracle.TypeFacts),
		kinds: make(map[string]string),
	}
	// Two passes: every declaration must be registered before member types
	// can be qualified against it.
	for _, file := range files {
		for _, decl := range file.Types {
			b.declare(file.Package, decl)
		}
	}
	for _, file := range files {
		for _, decl := range file.Types {
			b.populateMembers(file.Package, decl)
			b.linkEmbedded(file.Package, decl)
		}
		for _, fn := range file.Funcs {
			b.attachFunc(file.Package, fn)
		}
	}

	catalog := oracle.NewCatalog()
	for _, facts := range b.facts {
		catalog.Add(facts)
	}
	return catalog
}

type catalogBuilder struct {
	facts map[string]*oracle.TypeFacts
	kinds map[string]string // qualified name -> "struct" | "interface"
}

func (b *catalogBuilder) declare(pkg string, decl TypeDecl) {
	if decl.Kind != "struct" && decl.Kind != "interface" {
		return
	}
	qualified := qualify(pkg, decl.Name)
	kind := typeinfo.KindClass
	if decl.Kind == "interface" {
		kind = typeinfo.KindInterface
	}
	b.facts[qualified] = &oracle.TypeFacts{
		Name:   qualified,
		Kind:   kind,
		Public: exported(decl.Name),
		Fields: make(map[string]string),
	}
	b.kinds[qualified] = decl.Kind
}

func (b *catalogBuilder) populateMembers(pkg string, decl TypeDecl) {
	facts, ok := b.facts[qualify(pkg, decl.Name)]
	if !ok {
		return
	}
	for _, field := range decl.Fields {
		if !exported(field.Name) {
			continue
		}
		facts.Fields[field.Name] = b.normalize(pkg, field.Type)
	}
	for _, method := range decl.Methods {
		if !exported(method.Name) {
			continue
		}
		callable := oracle.Callable{
			Name:    method.Name,
			Returns: b.normalize(pkg, method.Returns),
		}
		for _, p := range method.Params {
			callable.Params = append(callable.Params, b.normalize(pkg, p))
		}
		facts.Methods = append(facts.Methods, callable)
	}
}

// linkEmbedded classifies embedded types: an embedded struct becomes the
// superclass edge, an embedded interface an implements edge; interfaces
// embedding interfaces become subinterfaces of the embedded one. Unknown
// embedded names are dropped rather than guessed at.
func (b *catalogBuilder) linkEmbedded(pkg string, decl TypeDecl) {
	self := qualify(pkg, decl.Name)
	facts, ok := b.facts[self]
	if !ok {
		return
	}
	for _, raw := range decl.Embedded {
		target := b.normalize(pkg, raw)
		targetFacts, known := b.facts[target]
		if !known {
			continue
		}
		switch {
		case decl.Kind == "struct" && b.kinds[target] == "struct":
			if facts.SuperClass == "" {
				facts.SuperClass = target
				targetFacts.Subclasses = append(targetFacts.Subclasses, self)
			}
		case decl.Kind == "struct" && b.kinds[target] == "interface":
			facts.Interfaces = append(facts.Interfaces, target)
			targetFacts.Implementers = append(targetFacts.Implementers, self)
		case decl.Kind == "interface" && b.kinds[target] == "interface":
			targetFacts.SubInterfaces = append(targetFacts.SubInterfaces, self)
		}
	}
}

// attachFunc routes a package function to the type it builds: NewX becomes a
// constructor of X, any other exported function returning X becomes a static
// factory of X.
func (b *catalogBuilder) attachFunc(pkg string, fn FuncDecl) {
	if !exported(fn.Name) {
		return
	}
	returns := b.firstReturn(pkg, fn.Returns)
	if returns == "" {
		return
	}
	facts, ok := b.facts[returns]
	if !ok {
		return
	}

	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, b.normalize(pkg, p))
	}

	simple := returns[strings.LastIndex(returns, ".")+1:]
	if fn.Name == "New"+simple || fn.Name == "New" {
		facts.Constructors = append(facts.Constructors, params)
		return
	}
	facts.Factories = append(facts.Factories, oracle.Callable{
		Name:    fn.Name,
		Returns: returns,
		Params:  params,
	})
}

func (b *catalogBuilder) firstReturn(pkg string, returns []string) string {
	for _, r := range returns {
		if r == "error" {
			continue
		}
		normalized := b.normalize(pkg, r)
		if _, ok := b.facts[normalized]; ok {
			return normalized
		}
		return ""
	}
	return ""
}

// normalize rewrites a source-level type expression into the catalog's
// naming scheme: pointers stripped, slice/array prefixes turned into
// trailing [] pairs, unqualified names resolved against the declaring
// package. Shapes the catalog cannot express (maps, channels, funcs) pass
// through verbatim and degrade to phantoms during exploration.
func (b *catalogBuilder) normalize(pkg, raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	name = strings.TrimPrefix(name, "...")

	dims := 0
unwrap:
	for {
		switch {
		case strings.HasPrefix(name, "*"):
			name = name[1:]
		case strings.HasPrefix(name, "[]"):
			name = name[2:]
			dims++
		default:
			break unwrap
		}
	}
	if name == "" {
		return raw
	}
	base := name
	if !strings.Contains(base, ".") && !isBuiltin(base) {
		if qualified := qualify(pkg, base); b.isDeclared(qualified) {
			base = qualified
		}
	}
	return base + strings.Repeat("[]", dims)
}

func (b *catalogBuilder) isDeclared(name string) bool {
	_, ok := b.facts[name]
	return ok
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func exported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

var builtinNames = map[string]struct{}{
	"bool": {}, "string": {}, "error": {}, "any": {},
	"int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
	"float32": {}, "float64": {}, "complex64": {}, "complex128": {},
	"byte": {}, "rune": {},
}

func isBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}
