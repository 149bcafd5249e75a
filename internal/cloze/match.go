package cloze

import (
	"strings"
	"unicode/utf8"
)

// Span is a byte range [Start, End) inside a sentence.
type Span struct {
	Start int
	End   int
}

// Strategy locates a word inside a sentence. Strategies are tried in order
// until one matches.
type Strategy struct {
	Name  string
	Match func(sentence, word string) (Span, bool)
}

// DefaultStrategies returns the fallback chain: exact match first, then a
// case-insensitive match.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "exact", Match: MatchExact},
		{Name: "case-insensitive", Match: MatchFold},
	}
}

// MatchExact finds the first byte-for-byte occurrence of word.
func MatchExact(sentence, word string) (Span, bool) {
	if word == "" {
		return Span{}, false
	}

	pos := strings.Index(sentence, word)
	if pos < 0 {
		return Span{}, false
	}

	return Span{Start: pos, End: pos + len(word)}, true
}

// MatchFold finds the first case-insensitive occurrence of word. Candidates
// are windows of the sentence holding exactly as many runes as word, so the
// returned span always covers the original-case text on rune boundaries even
// when the two case variants differ in byte length.
func MatchFold(sentence, word string) (Span, bool) {
	if word == "" {
		return Span{}, false
	}

	n := utf8.RuneCountInString(word)

	// byte offset of every rune start, plus the end of the sentence
	offsets := make([]int, 0, len(sentence)+1)
	for i := range sentence {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(sentence))

	for r := 0; r+n < len(offsets); r++ {
		start, end := offsets[r], offsets[r+n]
		if strings.EqualFold(sentence[start:end], word) {
			return Span{Start: start, End: end}, true
		}
	}

	return Span{}, false
}
