package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/ankigen/internal/cache"
	"github.com/ppiankov/ankigen/internal/cloze"
	"github.com/ppiankov/ankigen/internal/model"
	"go.uber.org/zap"
)

// Generator asks a Provider for card content and assembles model.Card values
type Generator struct {
	provider    Provider
	model       string
	composer    *cloze.Composer
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
	temperature float64
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithCache stores raw replies in c for ttl (zero uses the cache default)
func WithCache(c cache.Cache, ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.cache = c
			g.cacheTTL = ttl
		}
	}
}

// WithModel records the configured model name so cached replies from
// different models never collide
func WithModel(name string) GeneratorOption {
	return func(g *Generator) {
		g.model = name
	}
}

// WithTemperature sets the sampling temperature, clamped to [0, 2]
func WithTemperature(t float64) GeneratorOption {
	return func(g *Generator) {
		g.temperature = model.ClampTemperature(t)
	}
}

// WithComposer replaces the default cloze composer
func WithComposer(c *cloze.Composer) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.composer = c
		}
	}
}

// NewGenerator creates a generator backed by provider
func NewGenerator(provider Provider, logger *zap.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Generator{
		provider:    provider,
		cache:       cache.Nop{},
		logger:      logger,
		temperature: model.DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.composer == nil {
		g.composer = cloze.NewComposer(logger)
	}

	return g
}

// ProviderName reports which backend the generator talks to
func (g *Generator) ProviderName() string {
	return g.provider.Name()
}

// Generate dispatches on language
func (g *Generator) Generate(ctx context.Context, lang model.Language, word string) (*model.Card, error) {
	switch lang {
	case model.LanguageHindi:
		return g.GenerateHindiCard(ctx, word)
	case model.LanguageEnglish:
		return g.GenerateEnglishCloze(ctx, word)
	default:
		return nil, fmt.Errorf("unknown language: %s", lang)
	}
}

// GenerateHindiCard produces a Hindi sentence with its English translation
func (g *Generator) GenerateHindiCard(ctx context.Context, word string) (*model.Card, error) {
	system, user := HindiPrompts(word)

	payload, err := complete[model.HindiPayload](ctx, g, model.LanguageHindi, word, system, user,
		func(p model.HindiPayload) string {
			switch {
			case strings.TrimSpace(p.HindiSentence) == "":
				return "hindi_sentence"
			case strings.TrimSpace(p.EnglishSentence) == "":
				return "english_sentence"
			}
			return ""
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Hindi card: %w", err)
	}

	card := &model.Card{
		Language:        model.LanguageHindi,
		Word:            firstNonEmpty(payload.Word, word),
		HindiSentence:   strings.TrimSpace(payload.HindiSentence),
		EnglishSentence: strings.TrimSpace(payload.EnglishSentence),
	}

	if !strings.Contains(card.HindiSentence, card.Word) {
		msg := fmt.Sprintf("Hindi sentence may not contain original word: %s", card.Word)
		card.Warnings = append(card.Warnings, msg)
		g.logger.Warn(msg, zap.String("word", card.Word), zap.String("sentence", card.HindiSentence))
	}

	return card, nil
}

// GenerateEnglishCloze produces an English cloze sentence. The sentence is
// always passed through the cloze composer so the target is wrapped exactly
// once regardless of what markup the model returned.
func (g *Generator) GenerateEnglishCloze(ctx context.Context, word string) (*model.Card, error) {
	system, user := EnglishClozePrompts(word)

	payload, err := complete[model.ClozePayload](ctx, g, model.LanguageEnglish, word, system, user,
		func(p model.ClozePayload) string {
			if strings.TrimSpace(p.ClozeSentence) == "" {
				return "cloze_sentence"
			}
			return ""
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch English cloze: %w", err)
	}

	var hint string
	if payload.Hint != nil {
		hint = strings.TrimSpace(*payload.Hint)
	}

	target := firstNonEmpty(payload.Word, word)
	res := g.composer.Compose(strings.TrimSpace(payload.ClozeSentence), target, hint)
	if res.Wrapped {
		// the back of the card shows the hint the cloze actually carries
		hint = res.Hint
	}

	return &model.Card{
		Language:      model.LanguageEnglish,
		Word:          target,
		ClozeSentence: res.Sentence,
		Translation:   strings.TrimSpace(payload.Translation),
		Hint:          hint,
		Warnings:      res.Warnings(),
	}, nil
}

// complete fetches a reply (from cache when possible), decodes it into T and
// checks required fields. Only replies that decode cleanly are cached.
func complete[T any](ctx context.Context, g *Generator, lang model.Language, word, system, user string, missing func(T) string) (T, error) {
	var zero T
	key := cache.Key(g.provider.Name(), g.model, lang.String(), strings.ToLower(word),
		strconv.FormatFloat(g.temperature, 'f', 2, 64), user)

	raw, hit := g.cache.Get(key)
	if hit {
		g.logger.Debug("generation cache hit", zap.String("word", word))
	} else {
		resp, err := g.provider.Complete(ctx, CompletionRequest{
			System:      system,
			User:        user,
			Temperature: g.temperature,
			JSONMode:    true,
		})
		if err != nil {
			return zero, err
		}
		g.logger.Debug("generation complete",
			zap.String("word", word),
			zap.String("model", resp.Model),
			zap.Int("tokens", resp.TokensUsed),
		)
		raw = []byte(resp.Content)
	}

	payload, err := cloze.Decode[T](string(raw))
	if err != nil {
		if hit {
			_ = g.cache.Delete(key)
		}
		return zero, err
	}
	if field := missing(payload); field != "" {
		return zero, &cloze.PayloadFormatError{
			Payload: cloze.ExtractJSON(string(raw)),
			Err:     fmt.Errorf("missing required field %q", field),
		}
	}

	if !hit {
		if err := g.cache.Set(key, raw, g.cacheTTL); err != nil {
			g.logger.Debug("cache write failed", zap.Error(err))
		}
	}

	return payload, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
