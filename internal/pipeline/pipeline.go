// Package pipeline runs a card workflow end to end: generate, review, send
// to Anki, remember the deck.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/ppiankov/ankigen/internal/anki"
	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/worker"
	"go.uber.org/zap"
)

// NoteSink receives the generated notes (an AnkiConnect client in production)
type NoteSink interface {
	EnsureDeck(ctx context.Context, deck string) error
	AddNotes(ctx context.Context, notes []anki.Note) ([]*int64, error)
}

// DeckSaver persists the deck used by a run
type DeckSaver func(lang model.Language, deck string) error

// Pipeline orchestrates a complete workflow run
type Pipeline struct {
	config    *model.Config
	generator worker.CardGenerator
	sink      NoteSink
	batch     *worker.BatchProcessor
	confirmer Confirmer
	saveDeck  DeckSaver
	out       io.Writer
	logger    *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithConfirmer sets how REVIEW prompts are answered
func WithConfirmer(c Confirmer) Option {
	return func(p *Pipeline) { p.confirmer = c }
}

// WithDeckSaver sets the callback that remembers the deck after a real run
func WithDeckSaver(fn DeckSaver) Option {
	return func(p *Pipeline) { p.saveDeck = fn }
}

// WithOutput sets where card previews are printed (stdout by default)
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, generator worker.CardGenerator, sink NoteSink, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		config:    cfg,
		generator: generator,
		sink:      sink,
		batch: worker.NewBatchProcessor(generator, cfg.Concurrency.Workers,
			cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		out:    os.Stdout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.confirmer == nil {
		p.confirmer = NewPrompter(os.Stdin, os.Stderr)
	}

	return p
}

// WordFailure records a word that produced no notes
type WordFailure struct {
	Word string
	Err  error
}

// Summary describes the outcome of a run
type Summary struct {
	RunID    string
	Language model.Language
	Deck     string
	DryRun   bool

	Total      int // unique words processed
	Generated  int // cards generated successfully
	Added      int // notes accepted by Anki
	Duplicates int // notes Anki rejected as duplicates
	Skipped    int // cards declined during review
	Warnings   int // cards that carried warnings

	Failures []WordFailure
}

// Failed returns the number of words that failed
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// Run generates cards for words and, unless this is a dry run, sends them
// to Anki. A failure for one word is recorded in the summary and never
// stops the others; only deck setup, reading approval input or ctx
// cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, lang model.Language, words []string, deckOverride string) (*Summary, error) {
	runID := ulid.Make().String()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("language", lang.String()))

	deck := strings.TrimSpace(deckOverride)
	if deck == "" {
		deck = p.config.Deck(lang)
	}

	dryRun := p.config.Output.DryRun
	summary := &Summary{RunID: runID, Language: lang, Deck: deck, DryRun: dryRun}

	if !dryRun {
		if err := p.sink.EnsureDeck(ctx, deck); err != nil {
			return summary, fmt.Errorf("failed to ensure %s deck %s exists: %w", lang, deck, err)
		}
	}

	words = worker.DedupeWords(worker.NormalizeWords(words), logger)
	summary.Total = len(words)
	if len(words) == 0 {
		logger.Info("no words to process")
		return summary, nil
	}

	logger.Info("generating cards",
		zap.Int("words", len(words)),
		zap.String("deck", deck),
		zap.String("provider", p.generator.ProviderName()),
	)

	for _, res := range p.batch.Generate(ctx, lang, words) {
		if res.Error != nil {
			summary.Failures = append(summary.Failures, WordFailure{Word: res.Word, Err: res.Error})
			logger.Error("failed to generate card", zap.String("word", res.Word), zap.Error(res.Error))
			continue
		}

		card := res.Card
		summary.Generated++
		if len(card.Warnings) > 0 {
			summary.Warnings++
		}

		if dryRun {
			PrintCard(p.out, card, deck, "DRY RUN")
			continue
		}

		if !p.config.Output.AutoApprove {
			PrintCard(p.out, card, deck, "REVIEW")
			ok, err := p.confirmer.Confirm(reviewPrompt(lang), true)
			if err != nil {
				return summary, fmt.Errorf("failed to read approval input: %w", err)
			}
			if !ok {
				summary.Skipped++
				logger.Info("skipping card", zap.String("word", card.Word))
				continue
			}
		}

		notes := anki.BuildNotes(card, deck, p.config.Generation.Tags)
		ids, err := p.sink.AddNotes(ctx, notes)
		if err != nil {
			summary.Failures = append(summary.Failures, WordFailure{Word: card.Word, Err: err})
			logger.Error("failed to add notes", zap.String("word", card.Word), zap.Error(err))
			continue
		}

		for i, id := range ids {
			if id == nil {
				summary.Duplicates++
				logger.Warn("Anki reported a duplicate",
					zap.String("word", card.Word), zap.Int("card", i+1), zap.String("deck", deck))
				continue
			}
			summary.Added++
			logger.Info("added note",
				zap.Int64("note_id", *id), zap.String("word", card.Word), zap.String("deck", deck))
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if !dryRun && p.saveDeck != nil {
		if err := p.saveDeck(lang, deck); err != nil {
			logger.Warn("failed to save deck to config", zap.String("deck", deck), zap.Error(err))
		}
	}

	return summary, nil
}

func reviewPrompt(lang model.Language) string {
	if lang == model.LanguageHindi {
		return "Send these Hindi notes to Anki?"
	}
	return "Send this English cloze to Anki?"
}
