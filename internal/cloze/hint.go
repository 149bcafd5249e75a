package cloze

import "strings"

// injectHint splices "::hint" before the closing braces of the first closed
// c1 span. Spans that already carry a hint are left untouched.
func injectHint(sentence, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return sentence
	}

	bodyStart, closeAt, ok := firstClosedSpan(sentence)
	if !ok {
		return sentence
	}

	if strings.Contains(sentence[bodyStart:closeAt], hintSeparator) {
		return sentence
	}

	return sentence[:closeAt] + hintSeparator + hint + sentence[closeAt:]
}

// spanHint returns the hint carried by the first closed c1 span.
func spanHint(sentence string) string {
	bodyStart, closeAt, ok := firstClosedSpan(sentence)
	if !ok {
		return ""
	}
	return embeddedHint(sentence[bodyStart:closeAt])
}

// hasClosedSpan reports whether sentence holds a c1 span whose braces close.
// An opener that never closes is plain text for wrapping purposes.
func hasClosedSpan(sentence string) bool {
	_, _, ok := firstClosedSpan(sentence)
	return ok
}

// firstClosedSpan finds the first "{{c1::" closed by its matching braces and
// returns the byte offsets of its body.
func firstClosedSpan(sentence string) (bodyStart, closeAt int, ok bool) {
	for offset := 0; offset < len(sentence); {
		idx := strings.Index(sentence[offset:], clozeOpen)
		if idx < 0 {
			return 0, 0, false
		}
		start := offset + idx

		runes := []rune(sentence[start:])
		if end, closed := closeSpan(runes, 0); closed {
			spanEnd := start + len(string(runes[:end]))
			return start + len(clozeOpen), spanEnd - len(clozeClose), true
		}
		offset = start + len(clozeOpen)
	}
	return 0, 0, false
}
