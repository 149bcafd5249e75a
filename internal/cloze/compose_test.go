package cloze

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedComposer(opts ...Option) (*Composer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return NewComposer(zap.New(core), opts...), logs
}

// spanBody returns the text between the first {{c1:: and the next }}.
func spanBody(t *testing.T, s string) string {
	t.Helper()
	start := strings.Index(s, clozeOpen)
	if start < 0 {
		t.Fatalf("no cloze span in %q", s)
	}
	rest := s[start+len(clozeOpen):]
	end := strings.Index(rest, clozeClose)
	if end < 0 {
		t.Fatalf("cloze span never closes in %q", s)
	}
	return rest[:end]
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		word     string
		hint     string
		want     string
		strategy string
	}{
		{
			name:     "exact match",
			sentence: "The cat sat on the mat",
			word:     "cat",
			want:     "The {{c1::cat}} sat on the mat",
			strategy: "exact",
		},
		{
			name:     "first occurrence only",
			sentence: "cat after cat",
			word:     "cat",
			want:     "{{c1::cat}} after cat",
			strategy: "exact",
		},
		{
			name:     "case-insensitive fallback keeps original case",
			sentence: "The Cat sat",
			word:     "cat",
			want:     "The {{c1::Cat}} sat",
			strategy: "case-insensitive",
		},
		{
			name:     "multi-word phrase",
			sentence: "She decided to Give Up smoking",
			word:     "give up",
			want:     "She decided to {{c1::Give Up}} smoking",
			strategy: "case-insensitive",
		},
		{
			name:     "hint on fresh span",
			sentence: "The cat sat",
			word:     "cat",
			hint:     "animal",
			want:     "The {{c1::cat::animal}} sat",
			strategy: "exact",
		},
		{
			name:     "hint is trimmed",
			sentence: "The cat sat",
			word:     "cat",
			hint:     "  animal \n",
			want:     "The {{c1::cat::animal}} sat",
			strategy: "exact",
		},
		{
			name:     "blank hint ignored",
			sentence: "The cat sat",
			word:     "cat",
			hint:     "   ",
			want:     "The {{c1::cat}} sat",
			strategy: "exact",
		},
		{
			name:     "existing span gets hint instead of duplicate wrap",
			sentence: "I saw a {{c1::cat}}",
			word:     "cat",
			hint:     "animal",
			want:     "I saw a {{c1::cat::animal}}",
			strategy: "exact",
		},
		{
			name:     "existing hint is never overwritten",
			sentence: "{{c1::answer::existing}} text",
			word:     "answer",
			hint:     "new",
			want:     "{{c1::answer::existing}} text",
			strategy: "exact",
		},
		{
			name:     "wrong index is renumbered",
			sentence: "We {{c2::abandon}} ship",
			word:     "abandon",
			want:     "We {{c1::abandon}} ship",
			strategy: "exact",
		},
		{
			name:     "existing span keeps its casing",
			sentence: "I saw a {{c2::Cat}}",
			word:     "cat",
			want:     "I saw a {{c1::Cat}}",
			strategy: "case-insensitive",
		},
		{
			name:     "extra braces and upper-case tag",
			sentence: "We {{{C1::abandon}}} ship",
			word:     "abandon",
			want:     "We {{c1::abandon}} ship",
			strategy: "exact",
		},
		{
			name:     "tag without index",
			sentence: "We {{c::abandon}} ship",
			word:     "abandon",
			want:     "We {{c1::abandon}} ship",
			strategy: "exact",
		},
		{
			name:     "nested braces inside answer",
			sentence: "Use {{c1::a {b} c}} here",
			word:     "a {b} c",
			want:     "Use {{c1::a {b} c}} here",
			strategy: "exact",
		},
		{
			name:     "markup replaced by word even if answer differs",
			sentence: "They {{c1::abandoned}} the plan",
			word:     "abandon",
			want:     "They {{c1::abandon}} the plan",
			strategy: "exact",
		},
		{
			name:     "plain braces are not markup",
			sentence: "Set {x} to cat",
			word:     "cat",
			want:     "Set {x} to {{c1::cat}}",
			strategy: "exact",
		},
		{
			name:     "devanagari exact match",
			sentence: "मैं पानी पीता हूँ",
			word:     "पानी",
			want:     "मैं {{c1::पानी}} पीता हूँ",
			strategy: "exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composer, logs := newObservedComposer()

			res := composer.Compose(tt.sentence, tt.word, tt.hint)
			if res.Sentence != tt.want {
				t.Errorf("Compose() = %q, want %q", res.Sentence, tt.want)
			}
			if !res.Wrapped {
				t.Error("expected Wrapped to be true")
			}
			if res.Strategy != tt.strategy {
				t.Errorf("Strategy = %q, want %q", res.Strategy, tt.strategy)
			}
			if len(res.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %+v", res.Diagnostics)
			}
			if logs.Len() != 0 {
				t.Errorf("expected no warnings, got %d", logs.Len())
			}
			if n := strings.Count(res.Sentence, clozeOpen); n != 1 {
				t.Errorf("expected exactly one %s, got %d", clozeOpen, n)
			}
		})
	}
}

func TestCompose_VerbatimWordIsWrappedExactlyOnce(t *testing.T) {
	composer := NewComposer(nil)

	cases := []struct{ sentence, word string }{
		{"The quick brown fox", "quick"},
		{"quick", "quick"},
		{"Ends with a word", "word"},
		{"An ephemeral feeling, ephemeral indeed", "ephemeral"},
		{"Tom's {weird} sentence", "sentence"},
		{"日本語の文です", "文"},
	}

	for _, c := range cases {
		got := composer.Compose(c.sentence, c.word, "").Sentence
		if n := strings.Count(got, clozeOpen); n != 1 {
			t.Errorf("Compose(%q, %q) = %q: expected one span, got %d", c.sentence, c.word, got, n)
			continue
		}
		if body := spanBody(t, got); body != c.word {
			t.Errorf("Compose(%q, %q) span body = %q, want %q", c.sentence, c.word, body, c.word)
		}
	}
}

func TestCompose_Idempotent(t *testing.T) {
	composer := NewComposer(nil)

	cases := []struct{ sentence, word, hint string }{
		{"The cat sat", "cat", ""},
		{"I saw a {{c2::cat}}", "cat", ""},
		{"The cat sat", "cat", "animal"},
		{"{{c1::answer::existing}} text", "answer", "new"},
		{"Unrelated sentence", "missing", ""},
		{"{{c1::broken text", "word", ""},
		{"The Cat sat", "cat", ""},
		{"She decided to Give Up smoking", "give up", ""},
		{"The Cat sat", "cat", "animal"},
		{"{{c1::cat and another cat", "cat", ""},
	}

	for _, c := range cases {
		once := composer.Compose(c.sentence, c.word, c.hint).Sentence
		twice := composer.Compose(once, c.word, c.hint).Sentence
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", c.sentence, once, twice)
		}
	}
}

func TestCompose_UnmatchedWordWarns(t *testing.T) {
	composer, logs := newObservedComposer()

	res := composer.Compose("Unrelated sentence", "missing", "")

	if res.Sentence != "Unrelated sentence" {
		t.Errorf("expected sentence unchanged, got %q", res.Sentence)
	}
	if res.Wrapped {
		t.Error("expected Wrapped to be false")
	}
	if !res.HasDiagnostic(DiagWrapFailure) {
		t.Errorf("expected wrap failure diagnostic, got %+v", res.Diagnostics)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["word"]; got != "missing" {
		t.Errorf("expected word field 'missing', got %v", got)
	}
}

func TestCompose_UnmatchedWordIgnoresHint(t *testing.T) {
	composer := NewComposer(nil)

	res := composer.Compose("Unrelated sentence", "missing", "hint")
	if res.Sentence != "Unrelated sentence" {
		t.Errorf("expected sentence unchanged, got %q", res.Sentence)
	}
}

func TestCompose_EmptyWordWarns(t *testing.T) {
	composer, logs := newObservedComposer()

	res := composer.Compose("Some sentence", "", "")
	if res.Sentence != "Some sentence" {
		t.Errorf("expected sentence unchanged, got %q", res.Sentence)
	}
	if !res.HasDiagnostic(DiagWrapFailure) {
		t.Error("expected wrap failure diagnostic")
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning, got %d", logs.Len())
	}
}

func TestCompose_UnclosedMarkup(t *testing.T) {
	composer, logs := newObservedComposer()

	res := composer.Compose("{{c1::broken text", "word", "")

	if res.Sentence != "{{c1::broken text" {
		t.Errorf("expected original sentence, got %q", res.Sentence)
	}
	if !res.HasDiagnostic(DiagMalformedMarkup) {
		t.Errorf("expected malformed markup diagnostic, got %+v", res.Diagnostics)
	}
	if logs.FilterField(zap.String("diagnostic", string(DiagMalformedMarkup))).Len() != 1 {
		t.Error("expected malformed markup warning to be logged")
	}

	// the unclosed opener is plain text, so the missing word is a wrap failure
	if res.Wrapped {
		t.Error("expected Wrapped to be false: the sentence holds no closed span")
	}
	if !res.HasDiagnostic(DiagWrapFailure) {
		t.Errorf("expected wrap failure diagnostic, got %+v", res.Diagnostics)
	}
	if res.Hint != "" {
		t.Errorf("expected no hint without a span, got %q", res.Hint)
	}
}

func TestCompose_UnclosedMarkupStillWrapsWord(t *testing.T) {
	composer := NewComposer(nil)

	res := composer.Compose("{{c1::broken word here", "word", "hint")
	if !res.Wrapped || res.Strategy != "exact" {
		t.Fatalf("expected exact wrap, got wrapped=%v strategy=%q", res.Wrapped, res.Strategy)
	}
	if res.Sentence != "{{c1::broken {{c1::word::hint}} here" {
		t.Errorf("unexpected sentence %q", res.Sentence)
	}
	if res.Hint != "hint" {
		t.Errorf("Hint = %q, want %q", res.Hint, "hint")
	}
}

func TestCompose_UnclosedMarkupIsNotPartiallyRewritten(t *testing.T) {
	composer := NewComposer(nil)

	// The first span closes, the second never does. Neither may be rewritten.
	res := composer.Compose("A {{c2::cat}} and a {{c3::dog", "cat", "")

	if !strings.Contains(res.Sentence, "{{c2::") || !strings.Contains(res.Sentence, "{{c3::dog") {
		t.Errorf("existing markup was rewritten: %q", res.Sentence)
	}
	if !res.HasDiagnostic(DiagMalformedMarkup) {
		t.Error("expected malformed markup diagnostic")
	}
}

func TestCompose_UnclosedMarkupWithoutPrefixFallsBackToPlainText(t *testing.T) {
	composer := NewComposer(nil)

	res := composer.Compose("The cat {{c2::sat", "cat", "")
	if res.Sentence != "The {{c1::cat}} {{c2::sat" {
		t.Errorf("unexpected sentence %q", res.Sentence)
	}
}

// Only a closed c1 span counts as already wrapped.
func TestCompose_AlreadyWrappedGuard(t *testing.T) {
	composer := NewComposer(nil)

	wrapped, _, ok := composer.wrap("{{c1::cat}} and cat", "cat")
	if !ok || wrapped != "{{c1::cat}} and cat" {
		t.Errorf("wrap() re-wrapped an already wrapped sentence: %q", wrapped)
	}

	res := composer.Compose("{{c1::cat and another cat", "cat", "")
	if !res.Wrapped || !hasClosedSpan(res.Sentence) {
		t.Fatalf("expected a closed span, got %q", res.Sentence)
	}
	if n := strings.Count(res.Sentence, clozeOpen+"cat"+clozeClose); n != 1 {
		t.Errorf("expected exactly one closed span, got %d in %q", n, res.Sentence)
	}
}

func TestHasClosedSpan(t *testing.T) {
	tests := []struct {
		sentence string
		want     bool
	}{
		{"a {{c1::b}} c", true},
		{"a {{c1::b c", false},
		{"{{c1::x {{c1::y}}", true},
		{"{{c1::x {{c1::y}", false},
		{"{{c1::x {{c1::y}} z}}", true},
		{"{{c2::b}}", false},
		{"plain", false},
		{"ä {{c1::ö}}", true},
	}

	for _, tt := range tests {
		if got := hasClosedSpan(tt.sentence); got != tt.want {
			t.Errorf("hasClosedSpan(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestCompose_EffectiveHint(t *testing.T) {
	composer := NewComposer(nil)

	tests := []struct {
		name     string
		sentence string
		hint     string
		want     string
	}{
		{"supplied hint", "The cat sat", "animal", "animal"},
		{"embedded hint wins", "The {{c1::cat::pet}} sat", "animal", "pet"},
		{"no hint", "The cat sat", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := composer.Compose(tt.sentence, "cat", tt.hint)
			if res.Hint != tt.want {
				t.Errorf("Hint = %q, want %q (sentence %q)", res.Hint, tt.want, res.Sentence)
			}
		})
	}
}

// The existing-hint guard is what keeps a model hint from being overwritten.
func TestInjectHint(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		hint     string
		want     string
	}{
		{"fresh span", "a {{c1::b}} c", "h", "a {{c1::b::h}} c"},
		{"existing hint kept", "a {{c1::b::old}} c", "new", "a {{c1::b::old}} c"},
		{"no span", "a b c", "h", "a b c"},
		{"span never closes", "a {{c1::b c", "h", "a {{c1::b c"},
		{"empty hint", "a {{c1::b}} c", "", "a {{c1::b}} c"},
		{"only first closing braces count", "{{c1::b}} and }}", "h", "{{c1::b::h}} and }}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := injectHint(tt.sentence, tt.hint); got != tt.want {
				t.Errorf("injectHint() = %q, want %q", got, tt.want)
			}
		})
	}

	once := injectHint("x {{c1::y}}", "h")
	if twice := injectHint(once, "other"); twice != once {
		t.Errorf("second injection changed the sentence: %q", twice)
	}
	if strings.Count(once, hintSeparator) != 2 {
		t.Errorf("expected one hint separator after the c1 prefix, got %q", once)
	}
}

func TestCompose_MultiByteCaseInsensitive(t *testing.T) {
	composer := NewComposer(nil)

	tests := []struct {
		name     string
		sentence string
		word     string
		wantBody string
	}{
		{"cyrillic", "Здравствуй, прекрасный МИР сегодня", "мир", "МИР"},
		{"greek after multibyte prefix", "Καλημέρα ΚΌΣΜΕ!", "κόσμε", "ΚΌΣΜΕ"},
		{"accented latin", "Café Crème brûlée", "crème", "Crème"},
		{"kelvin sign differs in byte length", "The \u212Aelvin scale", "kelvin", "\u212Aelvin"},
		{"emoji before match", "🐱🐱 The CAT purrs", "cat", "CAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := composer.Compose(tt.sentence, tt.word, "")
			if !res.Wrapped {
				t.Fatalf("expected a match in %q", tt.sentence)
			}
			if res.Strategy != "case-insensitive" {
				t.Errorf("Strategy = %q, want case-insensitive", res.Strategy)
			}
			if !utf8.ValidString(res.Sentence) {
				t.Fatalf("result is not valid UTF-8: %q", res.Sentence)
			}

			body := spanBody(t, res.Sentence)
			if body != tt.wantBody {
				t.Errorf("span body = %q, want %q", body, tt.wantBody)
			}
			if utf8.RuneCountInString(body) != utf8.RuneCountInString(tt.word) {
				t.Errorf("span has %d runes, needle has %d",
					utf8.RuneCountInString(body), utf8.RuneCountInString(tt.word))
			}

			unwrapped := strings.Replace(strings.Replace(res.Sentence, clozeOpen, "", 1), clozeClose, "", 1)
			if unwrapped != tt.sentence {
				t.Errorf("surrounding text changed: %q", unwrapped)
			}
		})
	}
}

// Simple case folding never maps one rune to two, so "SS" does not match "ß".
func TestCompose_SharpSDoesNotFoldToDoubleS(t *testing.T) {
	composer, logs := newObservedComposer()

	res := composer.Compose("Die Straße ist lang", "STRASSE", "")
	if res.Wrapped {
		t.Errorf("expected no match, got %q", res.Sentence)
	}
	if res.Sentence != "Die Straße ist lang" {
		t.Errorf("expected sentence unchanged, got %q", res.Sentence)
	}
	if logs.Len() != 1 {
		t.Errorf("expected wrap failure warning, got %d entries", logs.Len())
	}
}

func TestCompose_CustomStrategies(t *testing.T) {
	composer := NewComposer(nil, WithStrategies(Strategy{Name: "exact", Match: MatchExact}))

	res := composer.Compose("The Cat sat", "cat", "")
	if res.Wrapped {
		t.Errorf("exact-only chain should not match, got %q", res.Sentence)
	}

	called := false
	last := Strategy{
		Name: "last-word",
		Match: func(sentence, word string) (Span, bool) {
			called = true
			i := strings.LastIndex(sentence, " ")
			return Span{Start: i + 1, End: len(sentence)}, true
		},
	}
	composer = NewComposer(nil, WithStrategies(append(DefaultStrategies(), last)...))

	res = composer.Compose("The Cat sat", "cat", "")
	if called {
		t.Error("later strategy should not run once an earlier one matched")
	}
	if res.Sentence != "The {{c1::Cat}} sat" {
		t.Errorf("unexpected sentence %q", res.Sentence)
	}

	res = composer.Compose("The Cat sat", "dog", "")
	if !called || res.Sentence != "The Cat {{c1::sat}}" || res.Strategy != "last-word" {
		t.Errorf("expected fallback strategy to wrap last word, got %q (%s)", res.Sentence, res.Strategy)
	}
}

func TestCompose_Concurrent(t *testing.T) {
	composer := NewComposer(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := composer.Compose("The Cat sat", "cat", "animal")
			if res.Sentence != "The {{c1::Cat::animal}} sat" {
				t.Errorf("unexpected sentence %q", res.Sentence)
			}
		}()
	}
	wg.Wait()
}

func TestResult_Warnings(t *testing.T) {
	res := Result{}
	if res.Warnings() != nil {
		t.Error("expected nil warnings")
	}

	res.Diagnostics = []Diagnostic{{Kind: DiagWrapFailure, Message: "m1"}, {Kind: DiagMalformedMarkup, Message: "m2"}}
	warnings := res.Warnings()
	if len(warnings) != 2 || warnings[0] != "m1" || warnings[1] != "m2" {
		t.Errorf("unexpected warnings %v", warnings)
	}
}
