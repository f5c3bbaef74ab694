package explorer

import (
	"testing"

	"typescope/internal/oracle"
)

func TestConstructorSignature(t *testing.T) {
	cases := []struct {
		declaring string
		params    []string
		want      string
	}{
		{"demo.Circle", []string{"float"}, "Circle(float param0)"},
		{"demo.Pair", []string{"demo.Left", "demo.Right"}, "Pair(Left param0,Right param1)"},
		{"Bare", nil, "Bare()"},
	}
	for _, c := range cases {
		if got := constructorSignature(c.declaring, c.params); got != c.want {
			t.Errorf("constructorSignature(%q, %v) = %q, want %q", c.declaring, c.params, got, c.want)
		}
	}
}

func TestMethodSignature(t *testing.T) {
	sig := methodSignature(oracle.Callable{
		Name:    "of",
		Returns: "demo.Money",
		Params:  []string{"long", "java.util.Currency"},
	}, "demo.Money")
	want := "Money of(long param0,Currency param1)"
	if sig != want {
		t.Errorf("methodSignature = %q, want %q", sig, want)
	}
}

func TestMethodSignature_DefaultsReturnToDeclaring(t *testing.T) {
	sig := methodSignature(oracle.Callable{Name: "Create"}, "demo.Widget")
	if sig != "Widget Create()" {
		t.Errorf("methodSignature = %q", sig)
	}
}

func TestSplitArray(t *testing.T) {
	cases := []struct {
		in   string
		base string
		dims int
	}{
		{"int", "int", 0},
		{"int[]", "int", 1},
		{"demo.Foo[][]", "demo.Foo", 2},
	}
	for _, c := range cases {
		base, dims := splitArray(c.in)
		if base != c.base || dims != c.dims {
			t.Errorf("splitArray(%q) = (%q, %d), want (%q, %d)", c.in, base, dims, c.base, c.dims)
		}
	}
}

func TestSimpleName(t *testing.T) {
	if got := simpleName("java.util.List"); got != "List" {
		t.Errorf("simpleName = %q", got)
	}
	if got := simpleName("int"); got != "int" {
		t.Errorf("simpleName = %q", got)
	}
}
