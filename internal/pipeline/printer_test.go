package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPrintCard_English(t *testing.T) {
	var buf bytes.Buffer
	PrintCard(&buf, &model.Card{
		Language:      model.LanguageEnglish,
		Word:          "cat",
		ClozeSentence: "The {{c1::cat::pet}} sat.",
		Translation:   "A feline rested.",
		Hint:          "pet",
		Warnings:      []string{"something odd"},
	}, "English Cloze Practice", "REVIEW")

	want := "[REVIEW][English Cloze Practice] cat\n" +
		"  Cloze       : The {{c1::cat::pet}} sat.\n" +
		"  Explanation : A feline rested.\n" +
		"  Hint        : pet\n" +
		"  ⚠ something odd\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintCard_Hindi(t *testing.T) {
	var buf bytes.Buffer
	PrintCard(&buf, &model.Card{
		Language:        model.LanguageHindi,
		Word:            "पानी",
		HindiSentence:   "मुझे पानी चाहिए।",
		EnglishSentence: "I need water.",
	}, "Hindi Sentence Practice", "DRY RUN")

	want := "[DRY RUN][Hindi Sentence Practice] पानी\n" +
		"  Hindi  : मुझे पानी चाहिए।\n" +
		"  English: I need water.\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &Summary{
		Deck:      "d",
		Total:     3,
		Generated: 2,
		Added:     2,
		Failures:  []WordFailure{{Word: "dog", Err: errors.New("boom")}},
	})

	out := buf.String()
	assert.Contains(t, out, "Run Complete")
	assert.Contains(t, out, "Added:       2 notes")
	assert.Contains(t, out, "✗ dog: boom")

	buf.Reset()
	PrintSummary(&buf, &Summary{Deck: "d", DryRun: true})
	assert.Contains(t, buf.String(), "Dry Run Complete")
	assert.NotContains(t, buf.String(), "Added:")
}
