package typeinfo

import (
	"encoding/json"
	"fmt"
)

// wireDescriptor mirrors the canonical key set for decoding.
type wireDescriptor struct {
	TypeName                     *string                                 `json:"typeName"`
	ClassType                    *string                                 `json:"classType"`
	SuperClassName               *string                                 `json:"superClassName"`
	SubClassName                 []string                                `json:"subClassName"`
	Interfaces                   []string                                `json:"interfaces"`
	SubInterfaceName             []string                                `json:"subInterfaceName"`
	ImplementedClassName         []string                                `json:"implementedClassName"`
	Fields                       map[string]string                       `json:"fields"`
	Constructors                 map[string]map[string]string            `json:"constructors"`
	Builders                     map[string]map[string]string            `json:"builders"`
	Methods                      []string                                `json:"methods"`
	ConcreteSubclassConstructors map[string]map[string]map[string]string `json:"concreteSubclassConstructors"`
	InnerClassName               *string                                 `json:"innerClassName"`
	Dimension                    *int                                    `json:"dimension"`
}

// Decode parses a canonically encoded descriptor back into its model form.
// It is the inverse of Encode for every descriptor the explorer produces.
func Decode(data []byte) (*Descriptor, error) {
	var w wireDescriptor
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}

	d := NewDescriptor(deref(w.TypeName), Kind(deref(w.ClassType)))
	d.SuperClassName = deref(w.SuperClassName)
	d.InnerClassName = deref(w.InnerClassName)
	if w.Dimension != nil {
		d.Dimension = *w.Dimension
	}
	if w.SubClassName != nil {
		d.SubClassNames = w.SubClassName
	}
	if w.Interfaces != nil {
		d.Interfaces = w.Interfaces
	}
	if w.SubInterfaceName != nil {
		d.SubInterfaceNames = w.SubInterfaceName
	}
	if w.ImplementedClassName != nil {
		d.ImplementerNames = w.ImplementedClassName
	}
	if w.Fields != nil {
		d.Fields = w.Fields
	}
	if w.Methods != nil {
		d.Methods = w.Methods
	}
	for sig, params := range w.Constructors {
		p, err := decodeParams(params)
		if err != nil {
			return nil, fmt.Errorf("constructor %q: %w", sig, err)
		}
		d.Constructors[sig] = p
	}
	for sig, params := range w.Builders {
		p, err := decodeParams(params)
		if err != nil {
			return nil, fmt.Errorf("builder %q: %w", sig, err)
		}
		d.Builders[sig] = p
	}
	for sub, ctors := range w.ConcreteSubclassConstructors {
		decoded := make(map[string]Params, len(ctors))
		for sig, params := range ctors {
			p, err := decodeParams(params)
			if err != nil {
				return nil, fmt.Errorf("subclass %q constructor %q: %w", sub, sig, err)
			}
			decoded[sig] = p
		}
		d.ConcreteSubclassConstructors[sub] = decoded
	}
	return d, nil
}

// DecodeAll parses a batch encoding produced by EncodeAll.
func DecodeAll(data []byte) (map[string]*Descriptor, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode descriptor set: %w", err)
	}
	out := make(map[string]*Descriptor, len(raw))
	for name, msg := range raw {
		d, err := Decode(msg)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		out[name] = d
	}
	return out, nil
}

// decodeParams rebuilds the ordered list from positional param0..paramN keys.
func decodeParams(m map[string]string) (Params, error) {
	params := make(Params, len(m))
	for i := range params {
		typ, ok := m[fmt.Sprintf("param%d", i)]
		if !ok {
			return nil, fmt.Errorf("missing positional key param%d", i)
		}
		params[i] = typ
	}
	return params, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
