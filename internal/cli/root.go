// Package cli wires the ankigen commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "dev"

var (
	cfgFile string
	verbose bool

	// generation flags shared by every workflow command
	flagModel       string
	flagProvider    string
	flagAnkiURL     string
	flagHindiDeck   string
	flagEnglishDeck string
	flagTemperature float64
	flagTags        []string
	flagDryRun      bool
	flagYes         bool
	flagConcurrency int
	flagNoCache     bool
	flagTimeout     time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ankigen",
	Short: "ankigen - generate Anki flashcards with a language model",
	Long: `ankigen turns a list of words into Anki flashcards.

For Hindi it writes a short example sentence with an English translation and
adds a forward and a reverse Basic note. For English it writes a cloze
sentence ({{c1::word}}) with an explanation and optional hint.

Notes are sent to a running Anki through the AnkiConnect add-on.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ankigen %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ankigen/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	pf.StringVar(&flagModel, "model", "", "model name (overrides config)")
	pf.StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, ollama)")
	pf.StringVar(&flagAnkiURL, "anki-url", "", "AnkiConnect URL")
	pf.StringVar(&flagHindiDeck, "hindi-deck", "", "default Hindi deck")
	pf.StringVar(&flagEnglishDeck, "english-deck", "", "default English deck")
	pf.Float64Var(&flagTemperature, "temperature", 0, "sampling temperature (0-2)")
	pf.StringSliceVar(&flagTags, "tags", nil, "extra tags added to every note (comma separated)")
	pf.BoolVar(&flagDryRun, "dry-run", false, "print cards without sending them to Anki")
	pf.BoolVarP(&flagYes, "yes", "y", false, "send cards without asking for review")
	pf.IntVar(&flagConcurrency, "concurrency", 0, "number of words generated in parallel")
	pf.BoolVar(&flagNoCache, "no-cache", false, "disable the generation cache")
	pf.DurationVar(&flagTimeout, "timeout", 10*time.Minute, "overall timeout for a run")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := configureViper(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		return
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: could not read config %s: %v\n", cfgFile, err)
	}
}

// configureViper sets the config location, defaults and environment bindings
func configureViper(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		v.AddConfigPath(dir)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	setDefaults(v)

	// ANKIGEN_LLM_MODEL, ANKIGEN_ANKI_URL, ...
	v.SetEnvPrefix("ANKIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// variables understood by earlier releases and other OpenAI tooling
	_ = v.BindEnv("llm.model", "ANKIGEN_LLM_MODEL", "OPENAI_MODEL")
	_ = v.BindEnv("llm.base_url", "ANKIGEN_LLM_BASE_URL", "OPENAI_BASE_URL")
	_ = v.BindEnv("generation.temperature", "ANKIGEN_GENERATION_TEMPERATURE", "OPENAI_TEMPERATURE")
	_ = v.BindEnv("anki.url", "ANKIGEN_ANKI_URL", "ANKI_CONNECT_URL")

	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ankigen"), nil
}

// configPath is where the deck choice is saved: the --config file or the default
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
