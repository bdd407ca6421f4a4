package cli

import (
	"fmt"

	"github.com/mgpai22/subx/internal/config"
	"github.com/mgpai22/subx/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subx",
	Short: "Convert between SRT, VTT, ASS, TXT, TSV, and JSON transcript formats",
	Long: `subx converts timed-text transcripts between subtitle, plain text,
tabular and JSON formats through a single canonical transcript model.

Text cleanup and timing synthesis for untimed input are controlled by a
TOML or YAML config file (./config.toml is used when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if logLevel != "" {
			level = logLevel
		}

		l, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Path to config TOML or YAML (defaults to ./config.toml if present)")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
