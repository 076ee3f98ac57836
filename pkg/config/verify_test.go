package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{LLM: LLMConfig{APIKey: "k"}}
		cfg.setDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "valid with feeds", mutate: func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "Defense", URL: "https://example.com/rss"}}
		}},
		{name: "enum violation", mutate: func(c *Config) { c.LLM.API = "grpc" }, errMsg: "config.llm.api"},
		{name: "source enum violation", mutate: func(c *Config) { c.Source.Type = "ftp" }, errMsg: "config.source.type"},
		{name: "below minimum", mutate: func(c *Config) { c.LLM.BatchSize = 0 }, errMsg: "below minimum"},
		{name: "above maximum", mutate: func(c *Config) { c.LLM.Temperature = 3 }, errMsg: "above maximum"},
		{name: "stockpile gap minimum", mutate: func(c *Config) { c.Feed.StockpileGap = 0 }, errMsg: "config.feed.stockpile_gap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEmbeddedSchemaMatchesConfig(t *testing.T) {
	generated, err := json.Marshal(GenerateSchema())
	require.NoError(t, err)

	var gen, emb struct {
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(generated, &gen))
	require.NoError(t, json.Unmarshal(embeddedSchema, &emb))

	for name, def := range gen.Defs {
		embDef, ok := emb.Defs[name]
		require.True(t, ok, "definition %s missing in schema.json, run go generate", name)
		for prop := range def.Properties {
			_, ok := embDef.Properties[prop]
			assert.True(t, ok, "property %s.%s missing in schema.json, run go generate", name, prop)
		}
	}
}

func TestVerifier_Check(t *testing.T) {
	minimum := 1.0
	no := false
	v := verifier{defs: map[string]*schemaNode{
		"Item": {Type: "object", AdditionalProperties: &no, Required: []string{"id"}, Properties: map[string]*schemaNode{
			"id":    {Type: "string"},
			"count": {Type: "integer", Minimum: &minimum},
		}},
	}}
	root := &schemaNode{Type: "array", Items: &schemaNode{Ref: "#/$defs/Item"}}

	tbl := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{"ok", `[{"id":"a","count":2}]`, ""},
		{"null array", `null`, ""},
		{"missing required", `[{"count":2}]`, "doc[0].id is required"},
		{"extra property", `[{"id":"a","extra":1}]`, "doc[0].extra is not allowed"},
		{"wrong type", `[{"id":5}]`, "expected string"},
		{"fraction", `[{"id":"a","count":1.5}]`, "expected integer"},
		{"not array", `{"id":"a"}`, "expected array"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			var doc any
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))
			err := v.check(root, doc, "doc")
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := v.resolve(&schemaNode{Ref: "#/$defs/Missing"})
	require.Error(t, err)
}
