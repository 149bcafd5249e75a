package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the LLM provider and AnkiConnect are reachable",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := 0

	if rt.provider.IsAvailable(ctx) {
		fmt.Printf("✓ LLM provider %s (%s) is reachable\n", rt.provider.Name(), rt.cfg.LLM.Model)
	} else {
		failed++
		fmt.Printf("✗ LLM provider %s is not reachable (check API key / base URL)\n", rt.provider.Name())
	}

	if v, err := rt.anki.Version(ctx); err == nil {
		fmt.Printf("✓ AnkiConnect at %s (API version %d)\n", rt.cfg.Anki.URL, v)
	} else {
		failed++
		fmt.Printf("✗ AnkiConnect at %s: %v\n", rt.cfg.Anki.URL, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
