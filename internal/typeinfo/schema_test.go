package typeinfo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var descriptorSchemaPath = filepath.Join("..", "..", "docs", "descriptor.schema.json")

func TestValidateEncoded_AcceptsAllKinds(t *testing.T) {
	full := NewDescriptor("demo.Widget", KindClass)
	full.SuperClassName = "demo.Base"
	full.SubClassNames = []string{"demo.Child"}
	full.Interfaces = []string{"demo.Marker"}
	full.Fields = map[string]string{"count": "int"}
	full.Constructors["Widget(int param0)"] = Params{"int"}
	full.Builders["Widget of(long param0)"] = Params{"long"}
	full.Methods = []string{"string Name()"}
	full.ConcreteSubclassConstructors = map[string]map[string]Params{
		"demo.Child": {"Child()": {}},
	}

	array := NewDescriptor("demo.Foo[][]", KindArray)
	array.InnerClassName = "demo.Foo"
	array.Dimension = 2

	for _, d := range []*Descriptor{
		full,
		array,
		NewDescriptor("int", KindPrimitive),
		NewDescriptor("demo.Shape", KindAbstractClass),
		NewDescriptor("demo.Handler", KindInterface),
		Phantom("demo.Ghost"),
	} {
		assert.NoError(t, ValidateEncoded(descriptorSchemaPath, []byte(d.Encode())),
			"descriptor %s must validate", d.TypeName)
	}
}

func TestValidateEncoded_RejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not JSON", `{"typeName":`},
		{"missing keys", `{"typeName":"demo.A","classType":"class"}`},
		{"unknown kind", strings.Replace(Phantom("demo.A").Encode(),
			`"classType":"phantom"`, `"classType":"enum"`, 1)},
		{"bad param key", `{"typeName":"demo.A","classType":"class","superClassName":null,` +
			`"subClassName":[],"interfaces":[],"subInterfaceName":[],"implementedClassName":[],` +
			`"fields":{},"constructors":{"A(int param0)":{"arg0":"int"}},"builders":{},"methods":[],` +
			`"concreteSubclassConstructors":{},"innerClassName":null,"dimension":null}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, ValidateEncoded(descriptorSchemaPath, []byte(c.doc)))
		})
	}
}
