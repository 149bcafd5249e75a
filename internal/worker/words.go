package worker

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ReadWordsFromFile reads words from a file. Blank lines and lines starting
// with # are skipped; a line may hold several words separated by , or ;.
func ReadWordsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file at %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	var words []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words = append(words, splitOn(line, ",;")...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return words, nil
}

// SplitInput splits free-form interactive input on commas, semicolons and
// line breaks
func SplitInput(input string) []string {
	return splitOn(input, ",;\n\r")
}

// NormalizeWords trims every word and drops empty ones
func NormalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// DedupeWords drops case-insensitive repeats, keeping the first spelling
func DedupeWords(words []string, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			logger.Debug("skipping duplicate word", zap.String("word", w))
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}

func splitOn(s, seps string) []string {
	pieces := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	return NormalizeWords(pieces)
}
