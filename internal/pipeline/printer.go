package pipeline

import (
	"fmt"
	"io"

	"github.com/ppiankov/ankigen/internal/model"
)

// PrintCard writes a human-readable preview of card
func PrintCard(w io.Writer, card *model.Card, deck, label string) {
	fmt.Fprintf(w, "[%s][%s] %s\n", label, deck, card.Word)

	switch card.Language {
	case model.LanguageHindi:
		fmt.Fprintf(w, "  Hindi  : %s\n", card.HindiSentence)
		fmt.Fprintf(w, "  English: %s\n", card.EnglishSentence)
	default:
		fmt.Fprintf(w, "  Cloze       : %s\n", card.ClozeSentence)
		fmt.Fprintf(w, "  Explanation : %s\n", card.Translation)
		if card.Hint != "" {
			fmt.Fprintf(w, "  Hint        : %s\n", card.Hint)
		}
	}

	for _, warning := range card.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warning)
	}
}

// PrintSummary writes the end-of-run report
func PrintSummary(w io.Writer, s *Summary) {
	title := "Run Complete"
	if s.DryRun {
		title = "Dry Run Complete"
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Deck:        %s\n", s.Deck)
	fmt.Fprintf(w, "  Words:       %d\n", s.Total)
	fmt.Fprintf(w, "  Generated:   %d\n", s.Generated)
	if !s.DryRun {
		fmt.Fprintf(w, "  Added:       %d notes\n", s.Added)
		fmt.Fprintf(w, "  Duplicates:  %d\n", s.Duplicates)
		fmt.Fprintf(w, "  Skipped:     %d\n", s.Skipped)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(w, "  Warnings:    %d cards\n", s.Warnings)
	}
	fmt.Fprintf(w, "  Failures:    %d\n", s.Failed())
	for _, f := range s.Failures {
		fmt.Fprintf(w, "    ✗ %s: %v\n", f.Word, f.Err)
	}
	fmt.Fprintf(w, "\n")
}
