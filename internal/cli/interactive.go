package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/pipeline"
	"github.com/ppiankov/ankigen/internal/worker"
	"github.com/spf13/cobra"
)

var interactiveLanguage string

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Enter words at a prompt and build cards as you go",
	Long: `Start an interactive session: choose a workflow, type words (separated
by commas or semicolons), review the cards, repeat.

Example:
  ankigen interactive
  ankigen interactive --language english`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().StringVarP(&interactiveLanguage, "language", "l", "", "workflow to start with (hindi, english)")
	rootCmd.AddCommand(interactiveCmd)
}

// sessionRunner runs one workflow pass (the pipeline in production)
type sessionRunner func(lang model.Language, words []string) error

// session drives the interactive loop
type session struct {
	prompter *pipeline.Prompter
	out      io.Writer
	run      sessionRunner
}

var workflowChoices = []string{"Hindi sentence cards", "English cloze cards", "Exit"}

// loop asks for a workflow (unless preset is given, which is used once),
// reads words and runs them until the user exits or input ends
func (s *session) loop(preset *model.Language) error {
	for {
		var lang model.Language
		if preset != nil {
			lang = *preset
			preset = nil
		} else {
			choice, err := s.prompter.Select("Choose a language workflow", workflowChoices, 0)
			if err != nil {
				return endOfInput(err)
			}
			switch choice {
			case 0:
				lang = model.LanguageHindi
			case 1:
				lang = model.LanguageEnglish
			default:
				return nil
			}
		}

		input, err := s.prompter.Input("Enter words (separated by commas or semicolons)")
		if err != nil {
			return endOfInput(err)
		}

		words := worker.SplitInput(input)
		if len(words) == 0 {
			fmt.Fprintln(s.out, "No words entered. Exiting.")
			return nil
		}

		if err := s.run(lang, words); err != nil {
			fmt.Fprintf(s.out, "✗ %v\n", err)
		}

		more, err := s.prompter.Confirm("Add more cards?", true)
		if err != nil {
			return endOfInput(err)
		}
		if !more {
			return nil
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func runInteractive(cmd *cobra.Command, args []string) error {
	var preset *model.Language
	if interactiveLanguage != "" {
		lang, err := model.ParseLanguage(interactiveLanguage)
		if err != nil {
			return err
		}
		preset = &lang
	}

	rt, err := newRuntime(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	s := &session{
		prompter: rt.prompter,
		out:      os.Stderr,
		run: func(lang model.Language, words []string) error {
			ctx, cancel := runContext()
			defer cancel()

			summary, err := rt.pipeline.Run(ctx, lang, words, "")
			if summary != nil {
				pipeline.PrintSummary(os.Stderr, summary)
			}
			return err
		},
	}

	return s.loop(preset)
}
