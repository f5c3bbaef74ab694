// Package extractor derives oracle type facts from Go source files using
// tree-sitter. It feeds the catalog builder that backs the CLI's scan mode.
package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// FileFacts is the raw harvest from one source file, before cross-file
// resolution and inverse-edge indexing.
type FileFacts struct {
	Path    string
	Package string
	Types   []TypeDecl
	Funcs   []FuncDecl
}

// TypeDecl is one type declaration as it appears in source.
type TypeDecl struct {
	Name     string
	Kind     string // "struct", "interface" or "other"
	Fields   []FieldDecl
	Embedded []string     // embedded type names, classified later
	Methods  []MethodDecl // interface method set
}

type FieldDecl struct {
	Name string
	Type string
}

type MethodDecl struct {
	Name    string
	Params  []string
	Returns string
}

// FuncDecl is a package-level function; candidates for constructors and
// static factories are picked out by the builder.
type FuncDecl struct {
	Name    string
	Params  []string
	Returns []string
}

// Extractor parses Go files into FileFacts.
type Extractor struct {
	lang *sitter.Language
}

// New creates an extractor for Go source.
func New() *Extractor {
	return &Extractor{lang: golang.GetLanguage()}
}

const declQuery = `
	(type_spec) @type
	(function_declaration) @func
`

// ExtractFromFile parses a single source file and collects its type and
// function declarations.
func (e *Extractor) ExtractFromFile(path string) (*FileFacts, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	facts := &FileFacts{
		Path:    path,
		Package: e.packageName(tree.RootNode(), source),
	}

	query, err := sitter.NewQuery([]byte(declQuery), e.lang)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "type":
				if decl := e.extractType(c.Node, source); decl != nil {
					facts.Types = append(facts.Types, *decl)
				}
			case "func":
				if decl := e.extractFunc(c.Node, source); decl != nil {
					facts.Funcs = append(facts.Funcs, *decl)
				}
			}
		}
	}

	return facts, nil
}

func (e *Extractor) packageName(root *sitter.Node, source []byte) string {
	query, _ := sitter.NewQuery([]byte(`(package_clause (package_identifier) @pkg)`), e.lang)
	qc := sitter.NewQueryCursor()
	qc.Exec(query, root)
	if m, ok := qc.NextMatch(); ok {
		return m.Captures[0].Node.Content(source)
	}
	return ""
}

func (e *Extractor) extractType(node *sitter.Node, source []byte) *TypeDecl {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return nil
	}

	decl := &TypeDecl{Name: nameNode.Content(source)}
	switch typeNode.Type() {
	case "struct_type":
		decl.Kind = "struct"
		e.extractStructMembers(decl, typeNode, source)
	case "interface_type":
		decl.Kind = "interface"
		e.extractInterfaceMembers(decl, typeNode, source)
	default:
		decl.Kind = "other"
	}
	return decl
}

func (e *Extractor) extractStructMembers(decl *TypeDecl, structNode *sitter.Node, source []byte) {
	var fieldList *sitter.Node
	for i := 0; i < int(structNode.ChildCount()); i++ {
		if child := structNode.Child(i); child.Type() == "field_declaration_list" {
			fieldList = child
			break
		}
	}
	if fieldList == nil {
		return
	}

	for i := 0; i < int(fieldList.NamedChildCount()); i++ {
		fieldDecl := fieldList.NamedChild(i)
		if fieldDecl.Type() != "field_declaration" {
			continue
		}

		var fieldType string
		if typeNode := fieldDecl.ChildByFieldName("type"); typeNode != nil {
			fieldType = typeNode.Content(source)
		}

		named := false
		for j := 0; j < int(fieldDecl.NamedChildCount()); j++ {
			child := fieldDecl.NamedChild(j)
			if child.Type() == "field_identifier" {
				decl.Fields = append(decl.Fields, FieldDecl{
					Name: child.Content(source),
					Type: fieldType,
				})
				named = true
			}
		}
		if !named && fieldType != "" {
			decl.Embedded = append(decl.Embedded, fieldType)
		}
	}
}

func (e *Extractor) extractInterfaceMembers(decl *TypeDecl, ifaceNode *sitter.Node, source []byte) {
	cursor := sitter.NewTreeCursor(ifaceNode)
	defer cursor.Close()

	var visit func(*sitter.TreeCursor)
	visit = func(c *sitter.TreeCursor) {
		n := c.CurrentNode()
		switch n.Type() {
		case "method_elem", "method_spec":
			method := MethodDecl{}
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				method.Name = nameNode.Content(source)
			}
			if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
				method.Params = e.extractParamTypes(paramsNode, source)
			}
			if resultNode := n.ChildByFieldName("result"); resultNode != nil {
				if returns := e.extractReturnTypes(resultNode, source); len(returns) > 0 {
					method.Returns = returns[0]
				}
			}
			if method.Name != "" {
				decl.Methods = append(decl.Methods, method)
			}
			return
		case "type_elem", "type_identifier", "qualified_type":
			parent := ""
			if n.Parent() != nil {
				parent = n.Parent().Type()
			}
			if parent == "interface_type" || parent == "method_spec_list" {
				decl.Embedded = append(decl.Embedded, n.Content(source))
				return
			}
		}
		if c.GoToFirstChild() {
			visit(c)
			for c.GoToNextSibling() {
				visit(c)
			}
			c.GoToParent()
		}
	}
	visit(cursor)
}

func (e *Extractor) extractFunc(node *sitter.Node, source []byte) *FuncDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	decl := &FuncDecl{Name: nameNode.Content(source)}
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		decl.Params = e.extractParamTypes(paramsNode, source)
	}
	if resultNode := node.ChildByFieldName("result"); resultNode != nil {
		decl.Returns = e.extractReturnTypes(resultNode, source)
	}
	return decl
}

// extractParamTypes returns the ordered parameter type list; a declaration
// naming several parameters of one type contributes that type once per name.
func (e *Extractor) extractParamTypes(paramsNode *sitter.Node, source []byte) []string {
	var types []string
	query, _ := sitter.NewQuery([]byte("(parameter_declaration) @param"), e.lang)
	qc := sitter.NewQueryCursor()
	qc.Exec(query, paramsNode)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			pNode := c.Node
			pType := ""
			if tn := pNode.ChildByFieldName("type"); tn != nil {
				pType = tn.Content(source)
			}
			names := 0
			cursor := sitter.NewTreeCursor(pNode)
			if cursor.GoToFirstChild() {
				for {
					if cursor.CurrentNode().Type() == "identifier" {
						names++
					}
					if !cursor.GoToNextSibling() {
						break
					}
				}
			}
			cursor.Close()
			if names == 0 {
				names = 1
			}
			for i := 0; i < names; i++ {
				types = append(types, pType)
			}
		}
	}
	return types
}

func (e *Extractor) extractReturnTypes(resultNode *sitter.Node, source []byte) []string {
	if resultNode.Type() == "parameter_list" {
		return e.extractParamTypes(resultNode, source)
	}
	return []string{resultNode.Content(source)}
}
