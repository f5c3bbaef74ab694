package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typescope/internal/typeinfo"
)

const sampleCatalog = `
types:
  - name: demo.Shape
    kind: abstract class
    subclasses: [demo.Circle]
    fields:
      name: java.lang.String
  - name: demo.Circle
    superclass: demo.Shape
    constructors:
      - [float]
    factories:
      - name: of
        returns: demo.Circle
        params: [float]
  - name: demo.hidden
    public: false
`

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "types.yaml", sampleCatalog)

	c := NewCatalog()
	require.NoError(t, c.LoadFile(path))
	assert.Equal(t, 3, c.Len())

	shape, err := c.Resolve("demo.Shape")
	require.NoError(t, err)
	assert.Equal(t, typeinfo.KindAbstractClass, shape.Kind)
	assert.True(t, shape.Public, "public defaults to true")
	assert.Equal(t, "java.lang.String", shape.Fields["name"])

	circle, err := c.Resolve("demo.Circle")
	require.NoError(t, err)
	assert.Equal(t, typeinfo.KindClass, circle.Kind, "kind defaults to class")
	assert.Equal(t, "demo.Shape", circle.SuperClass)
	require.Len(t, circle.Factories, 1)
	assert.Equal(t, "demo.Circle", circle.Factories[0].Returns)

	hidden, err := c.Resolve("demo.hidden")
	require.NoError(t, err)
	assert.False(t, hidden.Public)
}

func TestLoadCatalog_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "a.yaml", "types:\n  - name: demo.A\n")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCatalog(t, sub, "b.yml", "types:\n  - name: demo.B\n")
	writeCatalog(t, dir, "notes.txt", "not a catalog")

	c, err := LoadCatalog([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"demo.A", "demo.B"}, c.Names())
}

func TestLoadCatalog_LaterPathsOverride(t *testing.T) {
	dir := t.TempDir()
	first := writeCatalog(t, dir, "first.yaml", "types:\n  - name: demo.A\n    kind: class\n")
	second := writeCatalog(t, dir, "second.yaml", "types:\n  - name: demo.A\n    kind: interface\n")

	c, err := LoadCatalog([]string{first, second})
	require.NoError(t, err)
	facts, err := c.Resolve("demo.A")
	require.NoError(t, err)
	assert.Equal(t, typeinfo.KindInterface, facts.Kind)
}

func TestLoadCatalog_MissingPath(t *testing.T) {
	_, err := LoadCatalog([]string{"/no/such/dir"})
	assert.Error(t, err)
}

func TestLoadFile_RejectsUnknownKind(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "bad.yaml", "types:\n  - name: demo.X\n    kind: enum\n")
	err := NewCatalog().LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestLoadFile_RejectsNamelessEntry(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "bad.yaml", "types:\n  - kind: class\n")
	assert.Error(t, NewCatalog().LoadFile(path))
}

func TestResolve_NotFound(t *testing.T) {
	_, err := NewCatalog().Resolve("demo.Missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "demo.Missing")
}
