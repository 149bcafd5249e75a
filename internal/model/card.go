package model

import (
	"fmt"
	"strings"
)

// Language selects a card workflow
type Language string

const (
	LanguageHindi   Language = "hindi"   // Hindi sentence, forward and reverse Basic notes
	LanguageEnglish Language = "english" // English cloze note
)

func (l Language) String() string { return string(l) }

// Tag returns the tag added to every note of this language
func (l Language) Tag() string { return string(l) }

// ParseLanguage converts a flag value into a Language
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hindi", "hi":
		return LanguageHindi, nil
	case "english", "en":
		return LanguageEnglish, nil
	default:
		return "", fmt.Errorf("unknown language: %s (supported: hindi, english)", s)
	}
}

// Card is a generated flashcard before it is turned into notes
type Card struct {
	Language Language `json:"language"`
	Word     string   `json:"word"`

	// Hindi workflow
	HindiSentence   string `json:"hindi_sentence,omitempty"`
	EnglishSentence string `json:"english_sentence,omitempty"`

	// English cloze workflow
	ClozeSentence string `json:"cloze_sentence,omitempty"`
	Translation   string `json:"translation,omitempty"` // explanation shown on the back
	Hint          string `json:"hint,omitempty"`

	// Warnings collected while building the card (never fatal)
	Warnings []string `json:"warnings,omitempty"`
}

// HindiPayload is the JSON shape requested for Hindi cards
type HindiPayload struct {
	Word            string `json:"word"`
	HindiSentence   string `json:"hindi_sentence"`
	EnglishSentence string `json:"english_sentence"`
}

// ClozePayload is the JSON shape requested for English cloze cards
type ClozePayload struct {
	Word          string  `json:"word"`
	ClozeSentence string  `json:"cloze_sentence"`
	Translation   string  `json:"translation"`
	Hint          *string `json:"hint"`
}
