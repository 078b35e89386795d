package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// configEnvVar names the environment variable holding the config file path.
const configEnvVar = "CHARKOV_CONFIG"

// app carries the state shared by every command: configuration and logger.
type app struct {
	configPath string
	logLevel   string
	config     *Config
	logger     *slog.Logger
}

// setup loads the configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.config = DefaultConfig()
	if a.configPath != "" {
		config, err := LoadConfig(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		a.config = config
	}
	if a.logLevel != "" {
		a.config.LogLevel = a.logLevel
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(a.config.LogLevel)}))
	a.logger.Debug("Configuration loaded",
		"config_path", a.configPath,
		"log_level", a.config.LogLevel,
		"debug_seed", a.config.DebugSeed,
	)
	return nil
}

// newRootCmd builds the command tree. The root command itself trains a model
// and generates text; subcommands cover table inspection and corpus storage.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "charkov <windowLength> <seedText> <outputLength> <mode> <corpusPath>",
		Short: "Character-level Markov text generator",
		Long: `charkov learns which character follows every window of N characters ` +
			`in a corpus and uses those frequencies to extend a seed text. ` +
			`A mode of "random" produces different text on every run; any other ` +
			`mode uses the fixed debug seed and is fully reproducible.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Args:              cobra.ExactArgs(5),
		PersistentPreRunE: a.setup,
		RunE:              a.runGenerate,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv(configEnvVar), "path to a JSON config file (created with defaults if missing)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(a.newDumpCmd())
	rootCmd.AddCommand(a.newCorpusCmd())
	return rootCmd
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
