// Package cloze builds Anki cloze-deletion sentences from model output.
//
// A cloze span is written {{c1::answer}} or {{c1::answer::hint}}. The composer
// accepts a raw generated sentence, the target word and an optional hint, and
// returns a sentence carrying exactly one well-formed c1 span. Markup the
// model already emitted (wrong index, extra braces) is normalized first, so
// wrapping only ever deals with plain text.
package cloze

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	clozeOpen     = "{{c1::"
	clozeClose    = "}}"
	hintSeparator = "::"
)

// DiagnosticKind classifies a recovered composition problem.
type DiagnosticKind string

const (
	// DiagWrapFailure means the word was not found in the sentence.
	DiagWrapFailure DiagnosticKind = "markup_wrap_failure"
	// DiagMalformedMarkup means existing markup never closed and
	// normalization was skipped.
	DiagMalformedMarkup DiagnosticKind = "malformed_existing_markup"
)

// Diagnostic is a warning recorded while composing a sentence.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

// Result is the outcome of Compose.
type Result struct {
	// Sentence is the final sentence handed to note construction
	Sentence string

	// Wrapped is false only when the word could not be located
	Wrapped bool

	// Hint is the hint the final span carries: the model's embedded hint when
	// there was one, otherwise the supplied hint. Empty when nothing was wrapped.
	Hint string

	// Strategy names the match strategy that located the word; empty when the
	// sentence was already wrapped or wrapping failed
	Strategy string

	Diagnostics []Diagnostic
}

// Warnings returns the diagnostic messages.
func (r Result) Warnings() []string {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		warnings = append(warnings, d.Message)
	}
	return warnings
}

// HasDiagnostic reports whether a diagnostic of the given kind was recorded.
func (r Result) HasDiagnostic(kind DiagnosticKind) bool {
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Composer builds cloze sentences. It holds no mutable state and is safe for
// concurrent use.
type Composer struct {
	logger     *zap.Logger
	strategies []Strategy
}

// Option configures a Composer.
type Option func(*Composer)

// WithStrategies replaces the match strategy chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Composer) {
		c.strategies = strategies
	}
}

// NewComposer creates a composer that reports diagnostics to logger.
func NewComposer(logger *zap.Logger, opts ...Option) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Composer{
		logger:     logger,
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose wraps word inside sentence as a c1 cloze span and merges hint into
// it. An empty hint means no hint.
//
// If the model embedded its own hint in markup that gets normalized, that hint
// is kept and the supplied one is ignored. If the word cannot be located the
// sentence is returned without a span and a warning is recorded; Compose never
// fails.
func (c *Composer) Compose(sentence, word, hint string) Result {
	res := Result{}
	base := sentence
	embedded := ""

	if word != "" {
		norm, err := normalize(sentence, word)
		if err != nil {
			c.warn(&res, DiagMalformedMarkup,
				"existing cloze markup never closes; normalization skipped",
				zap.String("word", word), zap.String("sentence", sentence))
		} else {
			base = norm.text
			embedded = norm.hint
			if norm.replaced > 0 {
				c.logger.Debug("normalized existing cloze markup",
					zap.String("word", word), zap.Int("spans", norm.replaced))
			}
		}
	}

	wrapped, strategy, ok := c.wrap(base, word)
	if !ok {
		c.warn(&res, DiagWrapFailure,
			fmt.Sprintf("could not locate %q inside cloze sentence; keeping model output", word),
			zap.String("word", word), zap.String("sentence", base))
		res.Sentence = base
		return res
	}

	res.Wrapped = true
	res.Strategy = strategy

	if embedded != "" {
		wrapped = injectHint(wrapped, embedded)
	}
	wrapped = injectHint(wrapped, hint)

	res.Sentence = wrapped
	res.Hint = spanHint(wrapped)
	return res
}

// wrap surrounds the first match of word with cloze markup. A sentence that
// already holds a closed c1 span is returned as is.
func (c *Composer) wrap(sentence, word string) (string, string, bool) {
	if hasClosedSpan(sentence) {
		return sentence, "", true
	}

	for _, strategy := range c.strategies {
		span, ok := strategy.Match(sentence, word)
		if !ok {
			continue
		}

		var b strings.Builder
		b.Grow(len(sentence) + len(clozeOpen) + len(clozeClose))
		b.WriteString(sentence[:span.Start])
		b.WriteString(clozeOpen)
		b.WriteString(sentence[span.Start:span.End])
		b.WriteString(clozeClose)
		b.WriteString(sentence[span.End:])
		return b.String(), strategy.Name, true
	}

	return sentence, "", false
}

func (c *Composer) warn(res *Result, kind DiagnosticKind, msg string, fields ...zap.Field) {
	res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: kind, Message: msg})
	c.logger.Warn(msg, append(fields, zap.String("diagnostic", string(kind)))...)
}
