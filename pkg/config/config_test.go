package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid rss config", func(t *testing.T) {
		configPath := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
  base_url: https://briefs.example.com

source:
  type: rss
  timeout: 10s
  feeds:
    - category: defense
      url: https://example.com/defense.xml
      name: Defense Wire
    - category: Economy
      url: https://example.com/economy.xml

feed:
  stockpile_gap: 20
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://briefs.example.com", cfg.Server.BaseURL)
		assert.Equal(t, SourceRSS, cfg.Source.Type)
		assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
		require.Len(t, cfg.Source.Feeds, 2)
		assert.Equal(t, 20, cfg.Feed.StockpileGap)
		assert.Equal(t, 1000, cfg.Feed.LoadMoreThreshold)

		feeds := cfg.Feeds()
		require.Len(t, feeds, 2)
		assert.Equal(t, domain.Feed{Category: domain.CategoryDefense, URL: "https://example.com/defense.xml", Name: "Defense Wire"}, feeds[0])
		assert.Equal(t, domain.CategoryEconomy, feeds[1].Category)
		assert.Equal(t, "https://example.com/economy.xml", feeds[1].Name, "name defaults to url")

		listen, timeout := cfg.GetServerConfig()
		assert.Equal(t, ":9090", listen)
		assert.Equal(t, 45*time.Second, timeout)
		assert.Equal(t, "https://briefs.example.com", cfg.GetBaseURL())
	})

	t.Run("defaults", func(t *testing.T) {
		configPath := writeConfig(t, `
llm:
  api_key: sk-test
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, SourceLLM, cfg.Source.Type)
		assert.Equal(t, APIChat, cfg.LLM.API)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.InDelta(t, 0.15, cfg.LLM.Temperature, 0.0001)
		assert.Equal(t, 8000, cfg.LLM.MaxTokens)
		assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 50, cfg.LLM.BatchSize)
		assert.Equal(t, 50, cfg.Feed.StockpileGap)
		assert.Equal(t, 1000, cfg.Feed.LoadMoreThreshold)
		assert.Equal(t, 100, cfg.Feed.BadgeClearOffset)
		assert.Equal(t, 600, cfg.Extraction.SummaryLength)
	})

	t.Run("expand and override from env", func(t *testing.T) {
		t.Setenv("TEST_LLM_KEY", "sk-from-file")
		t.Setenv("ASPIRANT_LLM_MODEL", "gpt-4.1-mini")
		t.Setenv("ASPIRANT_LLM_API", "responses")
		t.Setenv("ASPIRANT_SERVER_TIMEOUT", "15s")
		configPath := writeConfig(t, `
llm:
  api_key: ${TEST_LLM_KEY}
  model: gpt-4o
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "sk-from-file", cfg.LLM.APIKey)
		assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model, "env wins over file")
		assert.Equal(t, APIResponses, cfg.LLM.API)
		assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	})

	t.Run("env only", func(t *testing.T) {
		t.Setenv("ASPIRANT_LLM_API_KEY", "sk-env")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := writeConfig(t, `
invalid yaml content
  with bad indentation
    and no structure
`)
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid env value", func(t *testing.T) {
		t.Setenv("ASPIRANT_LLM_MAX_TOKENS", "lots")
		_, err := Load(writeConfig(t, "llm:\n  api_key: k\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{LLM: LLMConfig{APIKey: "k"}}
		cfg.setDefaults()
		return cfg
	}

	tbl := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"llm without key and endpoint", func(c *Config) { c.LLM.APIKey = "" }, "llm.api_key is required"},
		{"llm with local endpoint", func(c *Config) { c.LLM.APIKey = ""; c.LLM.Endpoint = "http://localhost:11434/v1" }, ""},
		{"unknown source", func(c *Config) { c.Source.Type = "kafka" }, "source.type must be"},
		{"unknown api", func(c *Config) { c.LLM.API = "completions" }, "llm.api must be"},
		{"rss without feeds", func(c *Config) { c.Source.Type = SourceRSS }, "source.feeds is required"},
		{"rss feed without url", func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "Defense"}}
		}, "source.feeds[0].url is required"},
		{"rss feed with bad category", func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "Weather", URL: "https://example.com/rss"}}
		}, "unknown category"},
		{"rss feed bound to all", func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "all", URL: "https://example.com/rss"}}
		}, "can't be bound"},
		{"rss with schedule", func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "Defense", URL: "https://example.com/rss"}}
			c.Source.Schedule = "@every 15m"
		}, ""},
		{"rss with bad schedule", func(c *Config) {
			c.Source.Type = SourceRSS
			c.Source.Feeds = []FeedSource{{Category: "Defense", URL: "https://example.com/rss"}}
			c.Source.Schedule = "every now and then"
		}, "source.schedule"},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 2.5 }, "llm.temperature"},
		{"negative threshold", func(c *Config) { c.Feed.LoadMoreThreshold = -1 }, "non-negative"},
		{"short server timeout", func(c *Config) { c.Server.Timeout = time.Millisecond }, "server timeout"},
		{"short extraction timeout", func(c *Config) {
			c.Extraction.Enabled = true
			c.Extraction.Timeout = time.Millisecond
		}, "extraction timeout"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
