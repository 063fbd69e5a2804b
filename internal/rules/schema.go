package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var rulesSchema []byte

const rulesSchemaURL = "https://tsvcheck.local/rules.schema.json"

// compiledSchema compiles the embedded schema on first use.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(rulesSchema))
	if err != nil {
		return nil, fmt.Errorf("parse rules schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(rulesSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add rules schema: %w", err)
	}
	return compiler.Compile(rulesSchemaURL)
})

// validateDocument checks a decoded YAML document against the rules schema.
// The document goes through JSON first so YAML-specific Go types become the
// plain maps, slices and numbers the validator expects.
func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("rules schema validation: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("rules schema validation: %w", err)
	}

	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("rules schema validation: %w", err)
	}
	return nil
}
