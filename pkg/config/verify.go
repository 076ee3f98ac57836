package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema []byte

// schemaNode is the subset of JSON schema produced by GenerateSchema that Verify checks:
// refs, object properties with required and additionalProperties, arrays, enums and numeric bounds
type schemaNode struct {
	Ref                  string                 `json:"$ref"`
	Type                 string                 `json:"type"`
	Properties           map[string]*schemaNode `json:"properties"`
	AdditionalProperties *bool                  `json:"additionalProperties"`
	Required             []string               `json:"required"`
	Items                *schemaNode            `json:"items"`
	Enum                 []any                  `json:"enum"`
	Minimum              *float64               `json:"minimum"`
	Maximum              *float64               `json:"maximum"`
	Defs                 map[string]*schemaNode `json:"$defs"`
}

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var root schemaNode
	if err := json.Unmarshal(embeddedSchema, &root); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(configData, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	v := verifier{defs: root.Defs}
	if err := v.check(&root, doc, "config"); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

type verifier struct {
	defs map[string]*schemaNode
}

func (v verifier) resolve(n *schemaNode) (*schemaNode, error) {
	for depth := 0; n.Ref != ""; depth++ {
		if depth > 16 {
			return nil, fmt.Errorf("ref loop at %s", n.Ref)
		}
		name := strings.TrimPrefix(n.Ref, "#/$defs/")
		def, ok := v.defs[name]
		if !ok {
			return nil, fmt.Errorf("unknown ref %s", n.Ref)
		}
		n = def
	}
	return n, nil
}

func (v verifier) check(n *schemaNode, val any, path string) error {
	n, err := v.resolve(n)
	if err != nil {
		return err
	}
	if val == nil {
		return nil // null is an unset optional value
	}

	if len(n.Enum) > 0 && !slices.Contains(n.Enum, val) {
		return fmt.Errorf("%s: value %v not in %v", path, val, n.Enum)
	}

	switch n.Type {
	case "object":
		obj, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, val)
		}
		for _, req := range n.Required {
			if _, ok := obj[req]; !ok {
				return fmt.Errorf("%s.%s is required", path, req)
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prop, ok := n.Properties[k]
			if !ok {
				if n.AdditionalProperties != nil && !*n.AdditionalProperties {
					return fmt.Errorf("%s.%s is not allowed", path, k)
				}
				continue
			}
			if err := v.check(prop, obj[k], path+"."+k); err != nil {
				return err
			}
		}
	case "array":
		arr, ok := val.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, val)
		}
		if n.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := v.check(n.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case "string":
		if _, ok := val.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, val)
		}
	case "integer", "number":
		num, ok := val.(float64)
		if !ok {
			return fmt.Errorf("%s: expected %s, got %T", path, n.Type, val)
		}
		if n.Type == "integer" && num != float64(int64(num)) {
			return fmt.Errorf("%s: expected integer, got %v", path, num)
		}
		if n.Minimum != nil && num < *n.Minimum {
			return fmt.Errorf("%s: %v is below minimum %v", path, num, *n.Minimum)
		}
		if n.Maximum != nil && num > *n.Maximum {
			return fmt.Errorf("%s: %v is above maximum %v", path, num, *n.Maximum)
		}
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
