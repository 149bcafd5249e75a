package worker

import (
	"context"

	"github.com/ppiankov/ankigen/internal/model"
)

// CardGenerator produces one card per word
type CardGenerator interface {
	Generate(ctx context.Context, lang model.Language, word string) (*model.Card, error)
	ProviderName() string
}

// CardJob generates the card for a single word
type CardJob struct {
	Index     int
	Word      string
	Language  model.Language
	Generator CardGenerator
	Limiter   *Limiter
}

// Execute waits for the provider's rate limit, then generates the card
func (j *CardJob) Execute(ctx context.Context) Result {
	result := &CardResult{Index: j.Index, Word: j.Word}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Generator.ProviderName()); err != nil {
			result.Error = err
			return result
		}
	}

	result.Card, result.Error = j.Generator.Generate(ctx, j.Language, j.Word)
	return result
}

// CardResult represents the result of a card job
type CardResult struct {
	Index int
	Word  string
	Card  *model.Card
	Error error
}

// GetError returns the error from the card result
func (r *CardResult) GetError() error {
	return r.Error
}

// BatchProcessor generates cards for many words concurrently
type BatchProcessor struct {
	generator   CardGenerator
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(generator CardGenerator, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// Generate runs one job per word and returns results in input order. A word
// whose job never ran (ctx cancelled) gets ctx's error.
func (b *BatchProcessor) Generate(ctx context.Context, lang model.Language, words []string) []*CardResult {
	ordered := make([]*CardResult, len(words))
	if len(words) == 0 {
		return ordered
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, word := range words {
		job := &CardJob{
			Index:     i,
			Word:      word,
			Language:  lang,
			Generator: b.generator,
			Limiter:   b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
	}

	for _, result := range pool.Wait() {
		r := result.(*CardResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &CardResult{Index: i, Word: words[i], Error: err}
		}
	}

	return ordered
}
