package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/spf13/viper"
)

// setDefaults registers every config key so AutomaticEnv can see it
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("anki.url", d.Anki.URL)
	v.SetDefault("anki.timeout", d.Anki.Timeout)
	v.SetDefault("anki.http_proxy", "")
	v.SetDefault("anki.https_proxy", "")

	v.SetDefault("decks.hindi", d.Decks.Hindi)
	v.SetDefault("decks.english", d.Decks.English)

	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.tags", d.Generation.Tags)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_dir", d.Cache.DiskDir)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("output.dry_run", false)
	v.SetDefault("output.auto_approve", false)
	v.SetDefault("output.verbose", false)
}

// flagOverrides carries the flags a user actually set
type flagOverrides struct {
	changed func(name string) bool

	model       string
	provider    string
	ankiURL     string
	hindiDeck   string
	englishDeck string
	temperature float64
	tags        []string
	dryRun      bool
	yes         bool
	concurrency int
	noCache     bool
	verbose     bool
}

func currentFlags() flagOverrides {
	return flagOverrides{
		changed: func(name string) bool {
			f := rootCmd.PersistentFlags().Lookup(name)
			return f != nil && f.Changed
		},
		model:       flagModel,
		provider:    flagProvider,
		ankiURL:     flagAnkiURL,
		hindiDeck:   flagHindiDeck,
		englishDeck: flagEnglishDeck,
		temperature: flagTemperature,
		tags:        flagTags,
		dryRun:      flagDryRun,
		yes:         flagYes,
		concurrency: flagConcurrency,
		noCache:     flagNoCache,
		verbose:     verbose,
	}
}

// loadConfig builds the effective configuration: defaults, config file,
// environment, then flags
func loadConfig(v *viper.Viper, flags flagOverrides, getenv func(string) string) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	applyProviderEnv(cfg, getenv)
	applyFlags(cfg, flags)

	cfg.Generation.Temperature = model.ClampTemperature(cfg.Generation.Temperature)
	cfg.Generation.Tags = mergeTags(cfg.Generation.Tags, flags.tags)

	if cfg.Cache.Enabled && cfg.Cache.DiskDir == "" {
		if dir, err := configDir(); err == nil {
			cfg.Cache.DiskDir = filepath.Join(dir, "cache")
		}
	}

	return cfg, nil
}

// applyProviderEnv fills in the API key and endpoint from the provider's
// conventional variables when the config does not carry them
func applyProviderEnv(cfg *model.Config, getenv func(string) string) {
	provider := strings.ToLower(cfg.LLM.Provider)

	if cfg.LLM.APIKey == "" {
		switch provider {
		case "openai", "":
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	}

	if provider == "ollama" {
		if url := getenv("OLLAMA_BASE_URL"); url != "" {
			cfg.LLM.BaseURL = url
		}
	}
}

func applyFlags(cfg *model.Config, f flagOverrides) {
	if f.changed == nil {
		f.changed = func(string) bool { return false }
	}

	if f.changed("provider") {
		cfg.LLM.Provider = f.provider
	}
	if f.changed("model") {
		cfg.LLM.Model = f.model
	}
	if f.changed("anki-url") {
		cfg.Anki.URL = f.ankiURL
	}
	if f.changed("hindi-deck") {
		cfg.Decks.Hindi = f.hindiDeck
	}
	if f.changed("english-deck") {
		cfg.Decks.English = f.englishDeck
	}
	if f.changed("temperature") {
		cfg.Generation.Temperature = f.temperature
	}
	if f.changed("concurrency") && f.concurrency > 0 {
		cfg.Concurrency.Workers = f.concurrency
	}
	if f.dryRun {
		cfg.Output.DryRun = true
	}
	if f.yes {
		cfg.Output.AutoApprove = true
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.verbose {
		cfg.Output.Verbose = true
	}
}

// mergeTags trims config tags (falling back to the default tag when none
// remain) and appends extra tags not already present case-insensitively
func mergeTags(base, extra []string) []string {
	var tags []string
	for _, t := range base {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = []string{model.DefaultTag}
	}

	for _, t := range extra {
		t = strings.TrimSpace(t)
		if t == "" || containsFold(tags, t) {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// loadEffectiveConfig loads the configuration for the current invocation
func loadEffectiveConfig() (*model.Config, error) {
	return loadConfig(viper.GetViper(), currentFlags(), os.Getenv)
}
