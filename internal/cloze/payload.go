package cloze

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const fence = "```"

// ErrMissingPayload is returned when a response holds no JSON text at all,
// e.g. an empty fenced block.
var ErrMissingPayload = errors.New("missing payload")

// PayloadFormatError reports a payload that could not be decoded.
// Payload is the exact substring handed to the decoder.
type PayloadFormatError struct {
	Payload string
	Err     error
}

func (e *PayloadFormatError) Error() string {
	return fmt.Sprintf("failed to parse JSON payload: %v: %s", e.Err, e.Payload)
}

func (e *PayloadFormatError) Unwrap() error {
	return e.Err
}

// ExtractJSON returns the JSON substring of a model response, stripping an
// optional fenced block (```json ... ```). An unclosed fence yields every line
// after the opener. An empty fenced block yields "".
func ExtractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, fence) {
		return trimmed
	}

	lines := splitLines(trimmed)
	content := lines[1:]
	if len(content) == 0 {
		return ""
	}

	if last := content[len(content)-1]; strings.HasPrefix(strings.TrimSpace(last), fence) {
		content = content[:len(content)-1]
	}

	return strings.Join(content, "\n")
}

// Decode extracts the JSON substring from raw and decodes it into T.
func Decode[T any](raw string) (T, error) {
	var out T

	payload := ExtractJSON(raw)
	if strings.TrimSpace(payload) == "" {
		return out, ErrMissingPayload
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, &PayloadFormatError{Payload: payload, Err: err}
	}

	return out, nil
}

// splitLines splits on \n and drops a trailing \r from each line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
