package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// EnvPrefix is prepended to every environment override, e.g. ASPIRANT_LLM_API_KEY
const EnvPrefix = "ASPIRANT_"

// source types
const (
	SourceLLM = "llm"
	SourceRSS = "rss"
)

// llm transports
const (
	APIChat      = "chat"
	APIResponses = "responses"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Source     SourceConfig     `yaml:"source" json:"source" jsonschema:"description=Content source selection"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for brief generation"`
	Feed       FeedConfig       `yaml:"feed" json:"feed" jsonschema:"description=Feed acquisition tuning"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction for rss entries without summary"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" env:"SERVER_LISTEN" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" env:"SERVER_TIMEOUT" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" env:"SERVER_BASE_URL" jsonschema:"default=http://localhost:8080,description=Base URL for RSS feeds and external links"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" env:"DB_DSN" jsonschema:"default=file:aspirant.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// SourceConfig selects the content source adapter
type SourceConfig struct {
	Type     string        `yaml:"type" json:"type" env:"SOURCE_TYPE" jsonschema:"default=llm,enum=llm,enum=rss,description=Content source: llm generator or rss feeds"`
	Feeds    []FeedSource  `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom feeds per category for type rss"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" env:"SOURCE_TIMEOUT" jsonschema:"default=30s,description=Timeout of one feed fetch"`
	Schedule string        `yaml:"schedule" json:"schedule" env:"SOURCE_SCHEDULE" jsonschema:"description=Cron spec for refreshing rss feeds in the background like @every 15m. Empty disables"`
}

// FeedSource is one rss feed bound to a category
type FeedSource struct {
	Category string `yaml:"category" json:"category" jsonschema:"required,description=Category of items from this feed"`
	URL      string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Name     string `yaml:"name" json:"name" jsonschema:"description=Display name used as source title"`
}

// LLMConfig holds LLM configuration for brief generation
type LLMConfig struct {
	API          string        `yaml:"api" json:"api" env:"LLM_API" jsonschema:"default=chat,enum=chat,enum=responses,description=OpenAI API flavor: chat completions or responses"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" env:"LLM_ENDPOINT" jsonschema:"description=OpenAI-compatible API endpoint. Empty for api.openai.com"`
	APIKey       string        `yaml:"api_key" json:"api_key" env:"LLM_API_KEY" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" env:"LLM_MODEL" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" env:"LLM_TEMPERATURE" jsonschema:"default=0.15,minimum=0,maximum=2,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" env:"LLM_MAX_TOKENS" jsonschema:"default=8000,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" env:"LLM_TIMEOUT" jsonschema:"default=60s,description=Request timeout"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=50,minimum=1,description=Number of briefs requested per batch"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
}

// FeedConfig tunes the acquisition engine and the scroll tracker
type FeedConfig struct {
	StockpileGap      int `yaml:"stockpile_gap" json:"stockpile_gap" jsonschema:"default=50,minimum=1,description=Offset distance of background refills from the visible list"`
	LoadMoreThreshold int `yaml:"load_more_threshold" json:"load_more_threshold" jsonschema:"default=1000,description=Remaining scroll distance that triggers pagination"`
	BadgeClearOffset  int `yaml:"badge_clear_offset" json:"badge_clear_offset" jsonschema:"default=100,description=Scroll offset from the top that clears the new updates badge"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" env:"EXTRACTION_ENABLED" jsonschema:"default=false,description=Extract article text for feed entries without description"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Aspirant/1.0),description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum text length to consider valid"`
	SummaryLength int           `yaml:"summary_length" json:"summary_length" jsonschema:"default=600,description=Maximum summary length in characters"`
}

// Load reads configuration from a YAML file, applies ASPIRANT_* environment overrides,
// defaults and validation. Empty path means no file, env and defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:aspirant.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Source.Type == "" {
		c.Source.Type = SourceLLM
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}

	if c.LLM.API == "" {
		c.LLM.API = APIChat
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.15
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 8000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.BatchSize == 0 {
		c.LLM.BatchSize = 50
	}

	if c.Feed.StockpileGap == 0 {
		c.Feed.StockpileGap = 50
	}
	if c.Feed.LoadMoreThreshold == 0 {
		c.Feed.LoadMoreThreshold = 1000
	}
	if c.Feed.BadgeClearOffset == 0 {
		c.Feed.BadgeClearOffset = 100
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 10 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Mozilla/5.0 (compatible; Aspirant/1.0)"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 100
	}
	if c.Extraction.SummaryLength == 0 {
		c.Extraction.SummaryLength = 600
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	switch cfg.Source.Type {
	case SourceLLM:
		if cfg.LLM.APIKey == "" && cfg.LLM.Endpoint == "" {
			return fmt.Errorf("llm.api_key is required without a custom llm.endpoint")
		}
	case SourceRSS:
		if len(cfg.Source.Feeds) == 0 {
			return fmt.Errorf("source.feeds is required for rss source")
		}
		for i, f := range cfg.Source.Feeds {
			if f.URL == "" {
				return fmt.Errorf("source.feeds[%d].url is required", i)
			}
			c, err := domain.ParseCategory(f.Category)
			if err != nil {
				return fmt.Errorf("source.feeds[%d]: %w", i, err)
			}
			if c == domain.CategoryAll {
				return fmt.Errorf("source.feeds[%d]: category %s can't be bound to a feed", i, c)
			}
		}
		if cfg.Source.Schedule != "" {
			if _, err := cron.ParseStandard(cfg.Source.Schedule); err != nil {
				return fmt.Errorf("source.schedule: %w", err)
			}
		}
	default:
		return fmt.Errorf("source.type must be %s or %s, got %q", SourceLLM, SourceRSS, cfg.Source.Type)
	}

	if cfg.LLM.API != APIChat && cfg.LLM.API != APIResponses {
		return fmt.Errorf("llm.api must be %s or %s, got %q", APIChat, APIResponses, cfg.LLM.API)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.BatchSize < 1 {
		return fmt.Errorf("llm.batch_size must be at least 1")
	}

	if cfg.Feed.StockpileGap < 1 {
		return fmt.Errorf("feed.stockpile_gap must be at least 1")
	}
	if cfg.Feed.LoadMoreThreshold < 0 || cfg.Feed.BadgeClearOffset < 0 {
		return fmt.Errorf("feed thresholds must be non-negative")
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// Feeds returns configured rss feeds as domain feeds
func (c *Config) Feeds() []domain.Feed {
	res := make([]domain.Feed, 0, len(c.Source.Feeds))
	for _, f := range c.Source.Feeds {
		name := f.Name
		if name == "" {
			name = f.URL
		}
		res = append(res, domain.Feed{Category: domain.NormalizeCategory(f.Category), URL: strings.TrimSpace(f.URL), Name: name})
	}
	return res
}

// GetServerConfig returns server listen address and timeout
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns the public base URL used in generated links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
