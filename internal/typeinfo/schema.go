package typeinfo

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)
)

func loadCompiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	if cached, ok := schemaCache[abs]; ok {
		schemaCacheMu.Unlock()
		return cached, nil
	}
	schemaCacheMu.Unlock()

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	schemaCache[abs] = compiled
	schemaCacheMu.Unlock()
	return compiled, nil
}

// ValidateEncoded checks one encoded descriptor document against the wire
// schema at schemaPath.
func ValidateEncoded(schemaPath string, encoded []byte) error {
	schema, err := loadCompiledSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to compile descriptor schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(encoded, &v); err != nil {
		return fmt.Errorf("descriptor is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("descriptor schema validation failed: %w", err)
	}
	return nil
}
