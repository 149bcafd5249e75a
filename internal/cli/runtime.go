package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/ankigen/internal/anki"
	"github.com/ppiankov/ankigen/internal/cache"
	"github.com/ppiankov/ankigen/internal/llm"
	"github.com/ppiankov/ankigen/internal/logging"
	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/pipeline"
	"go.uber.org/zap"
)

// runtime bundles what a workflow command needs
type runtime struct {
	cfg      *model.Config
	logger   *zap.Logger
	provider llm.Provider
	anki     *anki.Client
	pipeline *pipeline.Pipeline
	prompter *pipeline.Prompter
}

// newRuntime loads the configuration and builds the provider, generator,
// AnkiConnect client and pipeline
func newRuntime(in io.Reader, out io.Writer) (*runtime, error) {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, cfg.Output.Verbose, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	generator := llm.NewGenerator(provider, logger,
		llm.WithTemperature(cfg.Generation.Temperature),
		llm.WithModel(cfg.LLM.Model),
		llm.WithCache(cache.FromConfig(cfg.Cache), cfg.Cache.DiskTTL),
	)

	ankiClient := anki.NewClient(cfg.Anki, logger)
	prompter := pipeline.NewPrompter(in, out)

	savePath, pathErr := configPath()
	saver := func(lang model.Language, deck string) error {
		if pathErr != nil {
			return pathErr
		}
		return saveDeck(savePath, lang, deck)
	}

	p := pipeline.NewPipeline(cfg, generator, ankiClient, logger,
		pipeline.WithConfirmer(prompter),
		pipeline.WithDeckSaver(saver),
	)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		anki:     ankiClient,
		pipeline: p,
		prompter: prompter,
	}, nil
}

// runContext returns a context bounded by --timeout and cancelled on Ctrl-C
func runContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, flagTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func printBanner(rt *runtime, lang model.Language, deck string, words int) {
	if deck == "" {
		deck = rt.cfg.Deck(lang)
	}

	mode := "review each card"
	switch {
	case rt.cfg.Output.DryRun:
		mode = "dry run (nothing sent to Anki)"
	case rt.cfg.Output.AutoApprove:
		mode = "send without review"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ankigen: %s cards\n", lang)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Words:        %d\n", words)
	fmt.Fprintf(os.Stderr, "  Deck:         %s\n", deck)
	fmt.Fprintf(os.Stderr, "  Provider:     %s/%s\n", rt.provider.Name(), rt.cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", rt.cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", mode)
	fmt.Fprintf(os.Stderr, "\n")
}
