package anki

import (
	"strings"
	"unicode"

	"github.com/ppiankov/ankigen/internal/model"
)

// Note is a note as accepted by AnkiConnect's addNotes action
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags,omitempty"`
	Options   *NoteOptions      `json:"options,omitempty"`
}

// NoteOptions controls duplicate handling
type NoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope,omitempty"`
}

func deckScopedOptions() *NoteOptions {
	return &NoteOptions{AllowDuplicate: false, DuplicateScope: "deck"}
}

// BuildNotes turns a card into the notes sent to Anki
func BuildNotes(card *model.Card, deck string, baseTags []string) []Note {
	if card.Language == model.LanguageHindi {
		return BuildHindiNotes(card, deck, baseTags)
	}
	return []Note{BuildEnglishNote(card, deck, baseTags)}
}

// BuildHindiNotes returns a forward (Hindi to English) and a reverse Basic note
func BuildHindiNotes(card *model.Card, deck string, baseTags []string) []Note {
	tags := CollectTags(baseTags, card.Word, model.LanguageHindi.Tag())

	return []Note{
		{
			DeckName:  deck,
			ModelName: "Basic",
			Fields: map[string]string{
				"Front": card.HindiSentence,
				"Back":  card.EnglishSentence,
			},
			Tags:    tags,
			Options: deckScopedOptions(),
		},
		{
			DeckName:  deck,
			ModelName: "Basic",
			Fields: map[string]string{
				"Front": card.EnglishSentence,
				"Back":  card.HindiSentence,
			},
			Tags:    append([]string(nil), tags...),
			Options: deckScopedOptions(),
		},
	}
}

// BuildEnglishNote returns a single Cloze note
func BuildEnglishNote(card *model.Card, deck string, baseTags []string) Note {
	backExtra := "Explanation: " + strings.TrimSpace(card.Translation)
	if hint := strings.TrimSpace(card.Hint); hint != "" {
		backExtra += "\nHint: " + hint
	}

	return Note{
		DeckName:  deck,
		ModelName: "Cloze",
		Fields: map[string]string{
			"Text":       card.ClozeSentence,
			"Back Extra": backExtra,
		},
		Tags:    CollectTags(baseTags, card.Word, model.LanguageEnglish.Tag()),
		Options: deckScopedOptions(),
	}
}

// CollectTags returns base followed by the language tag and a word_<word>
// tag, each added only when no case-insensitive equal is present
func CollectTags(base []string, word, languageTag string) []string {
	tags := append([]string(nil), base...)
	tags = appendTag(tags, languageTag)
	tags = appendTag(tags, "word_"+SanitizeTag(word))
	return tags
}

func appendTag(tags []string, tag string) []string {
	for _, existing := range tags {
		if strings.EqualFold(existing, tag) {
			return tags
		}
	}
	return append(tags, tag)
}

// SanitizeTag replaces whitespace and the characters Anki treats specially
// in tags (: ; ,) with underscores
func SanitizeTag(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' || r == ';' || r == ',' {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
