package model

import "time"

// Config holds the complete ankigen configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Anki         AnkiConfig         `yaml:"anki" mapstructure:"anki"`
	Decks        DecksConfig        `yaml:"decks" mapstructure:"decks"`
	Generation   GenerationConfig   `yaml:"generation" mapstructure:"generation"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the text-generation provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnkiConfig configures the AnkiConnect endpoint
type AnkiConfig struct {
	URL        string        `yaml:"url" mapstructure:"url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// DecksConfig holds the default deck per workflow
type DecksConfig struct {
	Hindi   string `yaml:"hindi" mapstructure:"hindi"`
	English string `yaml:"english" mapstructure:"english"`
}

// GenerationConfig controls sentence generation
type GenerationConfig struct {
	Temperature float64  `yaml:"temperature" mapstructure:"temperature"`
	Tags        []string `yaml:"tags" mapstructure:"tags"`
}

// CacheConfig controls caching of generation responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig limits calls to the generation provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig controls how many words are generated in parallel
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig controls the diagnostic logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// OutputConfig controls how a run treats generated cards
type OutputConfig struct {
	DryRun      bool `yaml:"dry_run" mapstructure:"dry_run"`
	AutoApprove bool `yaml:"auto_approve" mapstructure:"auto_approve"`
	Verbose     bool `yaml:"verbose" mapstructure:"verbose"`
}

// Defaults shared by the CLI and the providers
const (
	DefaultProvider      = "openai"
	DefaultOpenAIModel   = "gpt-4o"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultAnkiURL       = "http://127.0.0.1:8765"
	DefaultHindiDeck     = "Hindi Sentence Practice"
	DefaultEnglishDeck   = "English Cloze Practice"
	DefaultTemperature   = 0.7
	DefaultTag           = "generated"
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  DefaultProvider,
			Model:     DefaultOpenAIModel,
			BaseURL:   DefaultOpenAIBaseURL,
			Timeout:   30,
			MaxTokens: 400,
		},
		Anki: AnkiConfig{
			URL:     DefaultAnkiURL,
			Timeout: 15 * time.Second,
		},
		Decks: DecksConfig{
			Hindi:   DefaultHindiDeck,
			English: DefaultEnglishDeck,
		},
		Generation: GenerationConfig{
			Temperature: DefaultTemperature,
			Tags:        []string{DefaultTag},
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskDir:   "", // resolved to ~/.ankigen/cache by the CLI
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ClampTemperature bounds t to the range accepted by the providers
func ClampTemperature(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 2 {
		return 2
	}
	return t
}

// Deck returns the configured deck for a language
func (c *Config) Deck(lang Language) string {
	if lang == LanguageHindi {
		return c.Decks.Hindi
	}
	return c.Decks.English
}
