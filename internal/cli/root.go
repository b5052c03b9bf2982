package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"textguard/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "textguard",
	Short: "TextGuard - Detect and rewrite text that overlaps a reference corpus",
	Long: `TextGuard indexes reference documents into a shingle fingerprint index,
scores input text against that corpus with TF-IDF cosine similarity, and
rewrites flagged text with an LLM-backed paraphraser (with a deterministic
rule fallback).

Example usage:
  textguard corpus add ./sources     # Index reference documents
  textguard detect -f essay.txt      # Score a text against the corpus
  textguard remove -f essay.txt      # Paraphrase away detected overlap
  textguard humanize "text--here"    # Strip formatting artifacts
  textguard serve                    # Run the HTTP API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./textguard.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
