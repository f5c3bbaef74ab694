package oracle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"typescope/internal/typeinfo"
)

// Catalog is an in-memory oracle over a fixed set of type facts. It backs
// the YAML search-path mode of the CLI and doubles as the test oracle.
type Catalog struct {
	types map[string]*TypeFacts
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*TypeFacts)}
}

// Add registers facts under their type name, replacing any previous entry.
func (c *Catalog) Add(facts *TypeFacts) {
	if facts == nil || facts.Name == "" {
		return
	}
	c.types[facts.Name] = facts
}

// Len returns the number of registered types.
func (c *Catalog) Len() int { return len(c.types) }

// Names lists every registered type name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Oracle.
func (c *Catalog) Resolve(name string) (*TypeFacts, error) {
	facts, ok := c.types[name]
	if !ok {
		return nil, NotFound(name)
	}
	return facts, nil
}

// catalogFile is the YAML document shape for a type catalog.
type catalogFile struct {
	Types []catalogEntry `yaml:"types"`
}

type catalogEntry struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	Public        *bool             `yaml:"public"`
	SuperClass    string            `yaml:"superclass"`
	Subclasses    []string          `yaml:"subclasses"`
	Interfaces    []string          `yaml:"interfaces"`
	SubInterfaces []string          `yaml:"subinterfaces"`
	Implementers  []string          `yaml:"implementers"`
	Fields        map[string]string `yaml:"fields"`
	Constructors  [][]string        `yaml:"constructors"`
	Factories     []Callable        `yaml:"factories"`
	Methods       []Callable        `yaml:"methods"`
}

// LoadCatalog reads every YAML catalog on the given search paths. A path may
// be a single file or a directory, which is walked for .yaml/.yml files.
// Later paths override earlier ones on name clashes.
func LoadCatalog(paths []string) (*Catalog, error) {
	c := NewCatalog()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("search path %s: %w", path, err)
		}
		if !info.IsDir() {
			if err := c.LoadFile(path); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(p))
			if ext != ".yaml" && ext != ".yml" {
				return nil
			}
			return c.LoadFile(p)
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile merges one YAML catalog document into the catalog.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", path, err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for _, entry := range doc.Types {
		facts, err := entry.toFacts()
		if err != nil {
			return fmt.Errorf("catalog %s: %w", path, err)
		}
		c.Add(facts)
	}
	return nil
}

func (e catalogEntry) toFacts() (*TypeFacts, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("catalog entry without a name")
	}
	kind, err := parseKind(e.Kind)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", e.Name, err)
	}
	public := true
	if e.Public != nil {
		public = *e.Public
	}
	facts := &TypeFacts{
		Name:          e.Name,
		Kind:          kind,
		Public:        public,
		SuperClass:    e.SuperClass,
		Subclasses:    e.Subclasses,
		Interfaces:    e.Interfaces,
		SubInterfaces: e.SubInterfaces,
		Implementers:  e.Implementers,
		Fields:        e.Fields,
		Constructors:  e.Constructors,
		Factories:     e.Factories,
		Methods:       e.Methods,
	}
	return facts, nil
}

func parseKind(s string) (typeinfo.Kind, error) {
	switch strings.TrimSpace(s) {
	case "", "class":
		return typeinfo.KindClass, nil
	case "abstract class", "abstract_class":
		return typeinfo.KindAbstractClass, nil
	case "interface":
		return typeinfo.KindInterface, nil
	case "primitive":
		return typeinfo.KindPrimitive, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}
