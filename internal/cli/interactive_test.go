package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRun struct {
	lang  model.Language
	words []string
}

func newTestSession(input string, runErr error) (*session, *[]recordedRun, *bytes.Buffer) {
	var out bytes.Buffer
	var runs []recordedRun
	s := &session{
		prompter: pipeline.NewPrompter(strings.NewReader(input), &out),
		out:      &out,
		run: func(lang model.Language, words []string) error {
			runs = append(runs, recordedRun{lang: lang, words: words})
			return runErr
		},
	}
	return s, &runs, &out
}

func TestSession_SelectRunAndExit(t *testing.T) {
	// English, two words, more: yes, Hindi, one word, more: no
	s, runs, _ := newTestSession("2\nlaconic; terse\n\n1\nपानी\nn\n", nil)

	require.NoError(t, s.loop(nil))
	require.Len(t, *runs, 2)
	assert.Equal(t, model.LanguageEnglish, (*runs)[0].lang)
	assert.Equal(t, []string{"laconic", "terse"}, (*runs)[0].words)
	assert.Equal(t, model.LanguageHindi, (*runs)[1].lang)
	assert.Equal(t, []string{"पानी"}, (*runs)[1].words)
}

func TestSession_ExitChoice(t *testing.T) {
	s, runs, _ := newTestSession("3\n", nil)

	require.NoError(t, s.loop(nil))
	assert.Empty(t, *runs)
}

func TestSession_EmptyWordsExit(t *testing.T) {
	s, runs, out := newTestSession("1\n , ;\n", nil)

	require.NoError(t, s.loop(nil))
	assert.Empty(t, *runs)
	assert.Contains(t, out.String(), "No words entered")
}

func TestSession_PresetUsedOnce(t *testing.T) {
	lang := model.LanguageEnglish
	// preset skips the first menu; the second round asks again
	s, runs, out := newTestSession("ephemeral\ny\n1\nखाना\nn\n", nil)

	require.NoError(t, s.loop(&lang))
	require.Len(t, *runs, 2)
	assert.Equal(t, model.LanguageEnglish, (*runs)[0].lang)
	assert.Equal(t, model.LanguageHindi, (*runs)[1].lang)
	assert.Equal(t, 1, strings.Count(out.String(), "Choose a language workflow"))
}

func TestSession_RunErrorDoesNotEndSession(t *testing.T) {
	s, runs, out := newTestSession("1\nx\ny\n3\n", errors.New("anki unreachable"))

	require.NoError(t, s.loop(nil))
	assert.Len(t, *runs, 1)
	assert.Contains(t, out.String(), "anki unreachable")
}

func TestSession_EOFEndsQuietly(t *testing.T) {
	s, runs, _ := newTestSession("2\nword\n", nil)

	require.NoError(t, s.loop(nil))
	assert.Len(t, *runs, 1)
}
