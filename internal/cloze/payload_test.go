package cloze

import (
	"errors"
	"strings"
	"testing"
)

type testPayload struct {
	Word     string  `json:"word"`
	Sentence string  `json:"cloze_sentence"`
	Hint     *string `json:"hint"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"word":"cat"}`,
			want: `{"word":"cat"}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\t  {\"word\":\"cat\"}  \n",
			want: `{"word":"cat"}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"word\":\"cat\"}\n```",
			want: `{"word":"cat"}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"word\":\"cat\"}\n```",
			want: `{"word":"cat"}`,
		},
		{
			name: "indented closing fence",
			raw:  "```json\n{\n  \"word\": \"cat\"\n}\n    ```",
			want: "{\n  \"word\": \"cat\"\n}",
		},
		{
			name: "unclosed fence keeps everything after opener",
			raw:  "```json\n{\"word\":\"cat\"}\n\"tail\"",
			want: "{\"word\":\"cat\"}\n\"tail\"",
		},
		{
			name: "crlf line endings",
			raw:  "```json\r\n{\"word\":\"cat\"}\r\n```",
			want: `{"word":"cat"}`,
		},
		{
			name: "empty fenced block",
			raw:  "```json",
			want: "",
		},
		{
			name: "opener immediately closed",
			raw:  "```json\n```",
			want: "",
		},
		{
			name: "fence not on first line is left alone",
			raw:  "here you go\n```json\n{}\n```",
			want: "here you go\n```json\n{}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.raw); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_Success(t *testing.T) {
	raw := "```json\n{\"word\":\"cat\",\"cloze_sentence\":\"The cat sat\",\"hint\":\"animal\"}\n```"

	got, err := Decode[testPayload](raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Word != "cat" || got.Sentence != "The cat sat" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.Hint == nil || *got.Hint != "animal" {
		t.Errorf("expected hint 'animal', got %v", got.Hint)
	}
}

func TestDecode_NullHint(t *testing.T) {
	got, err := Decode[testPayload](`{"word":"cat","cloze_sentence":"The cat sat","hint":null}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Hint != nil {
		t.Errorf("expected nil hint, got %q", *got.Hint)
	}
}

func TestDecode_MissingPayload(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json", "```\n```"} {
		_, err := Decode[testPayload](raw)
		if !errors.Is(err, ErrMissingPayload) {
			t.Errorf("Decode(%q) error = %v, want ErrMissingPayload", raw, err)
		}
	}
}

func TestDecode_FormatErrorCarriesPayload(t *testing.T) {
	raw := "```json\n{\"word\": \"cat\", \"cloze_sentence\": \n```"

	_, err := Decode[testPayload](raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	var formatErr *PayloadFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected *PayloadFormatError, got %T", err)
	}

	wantPayload := "{\"word\": \"cat\", \"cloze_sentence\": "
	if formatErr.Payload != wantPayload {
		t.Errorf("Payload = %q, want %q", formatErr.Payload, wantPayload)
	}
	if !strings.Contains(err.Error(), wantPayload) {
		t.Errorf("error message should include the payload, got %q", err.Error())
	}
	if formatErr.Unwrap() == nil {
		t.Error("expected wrapped decoder error")
	}
}

func TestDecode_ProseIsFormatError(t *testing.T) {
	_, err := Decode[testPayload]("Sure! Here is your sentence.")

	var formatErr *PayloadFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected *PayloadFormatError, got %v", err)
	}
	if formatErr.Payload != "Sure! Here is your sentence." {
		t.Errorf("unexpected payload %q", formatErr.Payload)
	}
}
