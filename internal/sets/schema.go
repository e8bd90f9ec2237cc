package sets

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/sets.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("sets.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// checkShape rejects documents that are not an array of set objects before
// entries are parsed one by one.
func checkShape(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Index: -1, Field: "catalog", Reason: "invalid JSON: " + err.Error()}
	}
	s, err := catalogSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return &ValidationError{Index: -1, Field: "catalog", Reason: err.Error()}
	}
	return nil
}
