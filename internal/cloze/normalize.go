package cloze

import (
	"errors"
	"strings"
)

var errUnclosedSpan = errors.New("cloze span opened but never closed")

// normalized is the outcome of stripping model-emitted cloze markup.
type normalized struct {
	text     string
	replaced int
	// hint carried by the first replaced span, if the model embedded one
	hint string
}

// normalize replaces every existing cloze span ({{cN::...}} with any number of
// opening braces and any index) with the literal word, or with the span's own
// answer when that equals the word ignoring case. Spans are delimited by
// brace depth, so braces inside the answer do not end the span early.
//
// The scan walks runes, never bytes:
//
//	Scanning       --'{'-run + c|C + digits + "::"--> InSpan(1)
//	InSpan(d)      --'{'--> InSpan(d+1)
//	InSpan(d>1)    --'}'--> InSpan(d-1)
//	InSpan(1)      --'}'--> Scanning (span replaced)
//
// Reaching the end of input inside a span returns errUnclosedSpan and the
// sentence unchanged; nothing is partially rewritten.
func normalize(sentence, word string) (normalized, error) {
	runes := []rune(sentence)
	res := normalized{}

	var out strings.Builder
	out.Grow(len(sentence))

	for i := 0; i < len(runes); {
		if runes[i] != '{' {
			out.WriteRune(runes[i])
			i++
			continue
		}

		bodyStart, openRun, ok := matchOpening(runes, i)
		if !ok {
			out.WriteRune(runes[i])
			i++
			continue
		}

		end, closed := closeSpan(runes, i)
		if !closed {
			return normalized{text: sentence}, errUnclosedSpan
		}

		replacement := word
		if bodyEnd := end - openRun; bodyEnd >= bodyStart {
			body := string(runes[bodyStart:bodyEnd])
			if res.replaced == 0 {
				res.hint = embeddedHint(body)
			}
			// keep the casing the sentence already had for this word
			if answer := spanAnswer(body); strings.EqualFold(answer, word) {
				replacement = answer
			}
		}

		out.WriteString(replacement)
		res.replaced++
		i = end
	}

	res.text = out.String()
	return res, nil
}

// matchOpening reports whether runes[start:] begins a cloze tag: a run of '{',
// then 'c' or 'C', then digits, then "::". It returns the index just past the
// "::" and the length of the brace run.
func matchOpening(runes []rune, start int) (bodyStart, openRun int, ok bool) {
	i := start
	for i < len(runes) && runes[i] == '{' {
		i++
	}
	openRun = i - start

	if i >= len(runes) || (runes[i] != 'c' && runes[i] != 'C') {
		return 0, 0, false
	}
	i++

	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		i++
	}

	if i+1 >= len(runes) || runes[i] != ':' || runes[i+1] != ':' {
		return 0, 0, false
	}

	return i + 2, openRun, true
}

// closeSpan tracks brace depth from start and returns the index just past the
// brace that brings depth back to zero.
func closeSpan(runes []rune, start int) (int, bool) {
	depth := 0
	for i := start; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return len(runes), false
}

// embeddedHint returns the trimmed text after the first "::" of a span body.
func embeddedHint(body string) string {
	idx := strings.Index(body, hintSeparator)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(body[idx+len(hintSeparator):])
}

// spanAnswer returns the trimmed text before the first "::" of a span body.
func spanAnswer(body string) string {
	if idx := strings.Index(body, hintSeparator); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
