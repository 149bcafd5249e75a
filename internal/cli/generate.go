package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/pipeline"
	"github.com/ppiankov/ankigen/internal/worker"
	"github.com/spf13/cobra"
)

var (
	inputFile string
	deckName  string
)

// englishCmd represents the english command
var englishCmd = &cobra.Command{
	Use:   "english [WORD...]",
	Short: "Generate English cloze cards",
	Long: `Generate English cloze cards from words given as arguments or in a file.

Each card is one sentence with the word wrapped as {{c1::word}} (plus an
optional hint), with an explanation on the back.

Example:
  ankigen english serendipity ephemeral
  ankigen english -i words.txt --deck "GRE Vocabulary"
  ankigen english laconic --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLanguage(model.LanguageEnglish, args)
	},
}

// hindiCmd represents the hindi command
var hindiCmd = &cobra.Command{
	Use:   "hindi [WORD...]",
	Short: "Generate Hindi sentence cards",
	Long: `Generate Hindi sentence cards from words given as arguments or in a file.

Each word becomes a short Hindi sentence with an English translation, added
as a forward and a reverse Basic note.

Example:
  ankigen hindi पानी खाना
  ankigen hindi -i words.txt --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLanguage(model.LanguageHindi, args)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{englishCmd, hindiCmd} {
		cmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with words (one per line, or separated by , or ;)")
		cmd.Flags().StringVar(&deckName, "deck", "", "deck for this run (remembered for next time)")
		rootCmd.AddCommand(cmd)
	}
}

func runLanguage(lang model.Language, args []string) error {
	words := append([]string(nil), args...)

	if inputFile != "" {
		fileWords, err := worker.ReadWordsFromFile(inputFile)
		if err != nil {
			return err
		}
		words = append(words, fileWords...)
	}

	words = worker.NormalizeWords(words)
	if len(words) == 0 {
		return fmt.Errorf("no words provided; specify words via CLI arguments or --input file")
	}

	rt, err := newRuntime(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	printBanner(rt, lang, deckName, len(words))

	ctx, cancel := runContext()
	defer cancel()

	summary, err := rt.pipeline.Run(ctx, lang, words, deckName)
	if summary != nil {
		pipeline.PrintSummary(os.Stderr, summary)
	}
	if err != nil {
		return err
	}

	if summary.Failed() > 0 {
		return fmt.Errorf("%d of %d words failed", summary.Failed(), summary.Total)
	}
	return nil
}
