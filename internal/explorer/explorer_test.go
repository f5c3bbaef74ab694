package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typescope/internal/oracle"
	"typescope/internal/typeinfo"
)

func classFacts(name string, mutate ...func(*oracle.TypeFacts)) *oracle.TypeFacts {
	f := &oracle.TypeFacts{
		Name:   name,
		Kind:   typeinfo.KindClass,
		Public: true,
		Fields: map[string]string{},
	}
	for _, m := range mutate {
		m(f)
	}
	return f
}

func TestExplore_TwoTypeCycle(t *testing.T) {
	// A has a field of type B while B's superclass is A: exploration must
	// terminate and yield exactly one descriptor per type.
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.A", func(f *oracle.TypeFacts) {
		f.Fields["b"] = "demo.B"
		f.Subclasses = []string{"demo.B"}
	}))
	catalog.Add(classFacts("demo.B", func(f *oracle.TypeFacts) {
		f.SuperClass = "demo.A"
	}))

	repo, err := New(catalog).Explore("demo.A")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Len())

	a, ok := repo.Descriptor("demo.A")
	require.True(t, ok)
	assert.Equal(t, "demo.B", a.Fields["b"])
	assert.Contains(t, a.SubClassNames, "demo.B")

	b, ok := repo.Descriptor("demo.B")
	require.True(t, ok)
	assert.Equal(t, "demo.A", b.SuperClassName)
}

func TestExplore_Idempotent(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.A", func(f *oracle.TypeFacts) {
		f.Fields["b"] = "demo.B"
		f.Constructors = [][]string{{"int", "demo.B"}}
	}))
	catalog.Add(classFacts("demo.B"))

	e := New(catalog)
	first, err := e.Explore("demo.A")
	require.NoError(t, err)
	second, err := e.Explore("demo.A")
	require.NoError(t, err)

	require.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		d1, _ := first.Descriptor(name)
		d2, _ := second.Descriptor(name)
		assert.Equal(t, d1.Encode(), d2.Encode(), "descriptor %s differs between runs", name)
	}
}

func TestExplore_RootNotFoundIsHardFailure(t *testing.T) {
	repo, err := New(oracle.NewCatalog()).Explore("demo.Missing")
	require.Error(t, err)
	assert.True(t, oracle.IsNotFound(err))
	assert.Nil(t, repo)
}

func TestExplore_ClosureMemberDegradesToPhantom(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.A", func(f *oracle.TypeFacts) {
		f.Fields["mystery"] = "demo.Unknown"
	}))

	repo, err := New(catalog).Explore("demo.A")
	require.NoError(t, err)

	phantom, ok := repo.Descriptor("demo.Unknown")
	require.True(t, ok)
	assert.Equal(t, typeinfo.KindPhantom, phantom.Kind)
}

func TestExploreAll_DropsUnresolvedRootsSilently(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.A"))
	catalog.Add(classFacts("demo.B"))

	repo, err := New(catalog).ExploreAll([]string{"demo.A", "demo.Missing", "demo.B"})
	require.NoError(t, err)

	roots := repo.RootDescriptors()
	assert.Len(t, roots, 2)
	assert.Contains(t, roots, "demo.A")
	assert.Contains(t, roots, "demo.B")
	assert.NotContains(t, roots, "demo.Missing")
}

func TestExplore_AbstractClassShortcut(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.Shape", func(f *oracle.TypeFacts) {
		f.Kind = typeinfo.KindAbstractClass
		f.Subclasses = []string{"demo.Circle", "demo.Square"}
	}))
	catalog.Add(classFacts("demo.Circle", func(f *oracle.TypeFacts) {
		f.SuperClass = "demo.Shape"
		f.Constructors = [][]string{{"float"}}
	}))
	catalog.Add(classFacts("demo.Square", func(f *oracle.TypeFacts) {
		f.SuperClass = "demo.Shape"
		f.Constructors = [][]string{{"float"}}
	}))

	repo, err := New(catalog).Explore("demo.Shape")
	require.NoError(t, err)

	shape, ok := repo.Descriptor("demo.Shape")
	require.True(t, ok)
	want := map[string]map[string]typeinfo.Params{
		"demo.Circle": {"Circle(float param0)": {"float"}},
		"demo.Square": {"Square(float param0)": {"float"}},
	}
	assert.Equal(t, want, shape.ConcreteSubclassConstructors)
}

func TestExplore_ShortcutSkipsAbstractAndPrivateSubclasses(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.Shape", func(f *oracle.TypeFacts) {
		f.Kind = typeinfo.KindAbstractClass
		f.Subclasses = []string{"demo.Rounded", "demo.hidden", "demo.Circle"}
	}))
	catalog.Add(classFacts("demo.Rounded", func(f *oracle.TypeFacts) {
		f.Kind = typeinfo.KindAbstractClass
		f.Constructors = [][]string{{"int"}}
	}))
	catalog.Add(classFacts("demo.hidden", func(f *oracle.TypeFacts) {
		f.Public = false
		f.Constructors = [][]string{{"int"}}
	}))
	catalog.Add(classFacts("demo.Circle", func(f *oracle.TypeFacts) {
		f.Constructors = [][]string{{"float"}}
	}))

	repo, err := New(catalog).Explore("demo.Shape")
	require.NoError(t, err)

	shape, _ := repo.Descriptor("demo.Shape")
	require.NotNil(t, shape)
	assert.NotContains(t, shape.SubClassNames, "demo.hidden")
	require.Len(t, shape.ConcreteSubclassConstructors, 1)
	assert.Contains(t, shape.ConcreteSubclassConstructors, "demo.Circle")
}

func TestExplore_WideningReachesImplementers(t *testing.T) {
	// V8 is never referenced directly, only as an implementer of the Engine
	// interface used by a field; widening must still pull it in.
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.Car", func(f *oracle.TypeFacts) {
		f.Fields["engine"] = "demo.Engine"
	}))
	catalog.Add(&oracle.TypeFacts{
		Name:         "demo.Engine",
		Kind:         typeinfo.KindInterface,
		Public:       true,
		Implementers: []string{"demo.V8"},
	})
	catalog.Add(classFacts("demo.V8", func(f *oracle.TypeFacts) {
		f.Interfaces = []string{"demo.Engine"}
		f.Constructors = [][]string{{}}
	}))

	repo, err := New(catalog).Explore("demo.Car")
	require.NoError(t, err)

	v8, ok := repo.Descriptor("demo.V8")
	require.True(t, ok, "implementer must be part of the closure")
	assert.Contains(t, v8.Constructors, "V8()")
}

func TestExplore_ArrayAndPrimitiveSynthesis(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.Matrix", func(f *oracle.TypeFacts) {
		f.Fields["cells"] = "int[][]"
		f.Fields["rows"] = "demo.Row[]"
	}))
	catalog.Add(classFacts("demo.Row"))

	repo, err := New(catalog).Explore("demo.Matrix")
	require.NoError(t, err)

	cells, ok := repo.Descriptor("int[][]")
	require.True(t, ok)
	assert.Equal(t, typeinfo.KindArray, cells.Kind)
	assert.Equal(t, "int", cells.InnerClassName)
	assert.Equal(t, 2, cells.Dimension)

	prim, ok := repo.Descriptor("int")
	require.True(t, ok)
	assert.Equal(t, typeinfo.KindPrimitive, prim.Kind)

	rows, ok := repo.Descriptor("demo.Row[]")
	require.True(t, ok)
	assert.Equal(t, 1, rows.Dimension)
	_, ok = repo.Descriptor("demo.Row")
	assert.True(t, ok, "array base type must be explored")
}

func TestExplore_OneDescriptorPerName(t *testing.T) {
	// demo.B is referenced through a field, a constructor parameter and a
	// factory parameter; the repository must hold it exactly once.
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.A", func(f *oracle.TypeFacts) {
		f.Fields["first"] = "demo.B"
		f.Fields["second"] = "demo.B"
		f.Constructors = [][]string{{"demo.B"}}
		f.Factories = []oracle.Callable{{Name: "Of", Params: []string{"demo.B"}}}
	}))
	catalog.Add(classFacts("demo.B"))

	repo, err := New(catalog).Explore("demo.A")
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.A", "demo.B"}, repo.Names())
}

func TestExplore_SignatureCollisionLastWriteWins(t *testing.T) {
	// Two constructors whose parameters simplify to the same name collide
	// on one signature key. Last write wins; this is documented, not ideal.
	catalog := oracle.NewCatalog()
	catalog.Add(classFacts("demo.Box", func(f *oracle.TypeFacts) {
		f.Constructors = [][]string{
			{"alpha.Item"},
			{"beta.Item"},
		}
	}))

	repo, err := New(catalog).Explore("demo.Box")
	require.NoError(t, err)

	box, _ := repo.Descriptor("demo.Box")
	require.NotNil(t, box)
	require.Len(t, box.Constructors, 1)
	assert.Equal(t, typeinfo.Params{"beta.Item"}, box.Constructors["Box(Item param0)"])
}

func TestExplore_InterfaceDescriptor(t *testing.T) {
	catalog := oracle.NewCatalog()
	catalog.Add(&oracle.TypeFacts{
		Name:          "demo.Collection",
		Kind:          typeinfo.KindInterface,
		Public:        true,
		SubInterfaces: []string{"demo.List"},
		Implementers:  []string{"demo.ArrayList"},
		Methods: []oracle.Callable{
			{Name: "size", Returns: "int"},
			{Name: "add", Returns: "boolean", Params: []string{"demo.Element"}},
		},
	})
	catalog.Add(&oracle.TypeFacts{Name: "demo.List", Kind: typeinfo.KindInterface, Public: true})
	catalog.Add(classFacts("demo.ArrayList"))

	repo, err := New(catalog).Explore("demo.Collection")
	require.NoError(t, err)

	coll, ok := repo.Descriptor("demo.Collection")
	require.True(t, ok)
	assert.Equal(t, []string{"demo.List"}, coll.SubInterfaceNames)
	assert.Equal(t, []string{"demo.ArrayList"}, coll.ImplementerNames)
	assert.Equal(t, []string{"int size()", "boolean add(Element param0)"}, coll.Methods)

	for _, name := range []string{"demo.List", "demo.ArrayList"} {
		_, ok := repo.Descriptor(name)
		assert.True(t, ok, "%s must be explored", name)
	}
}
