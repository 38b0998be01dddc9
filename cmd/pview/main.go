// Package main provides the pview CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matsen/paperview/internal/config"
	"github.com/matsen/paperview/internal/loader"
	"github.com/matsen/paperview/internal/paper"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	dataPath    string

	logger     = zap.NewNop()
	tableCache = loader.NewCache(nil)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pview",
	Short: "Explore CORD-19 paper metadata by publication year",
	Long: `pview loads a CORD-19 style metadata.csv, cleans it, and summarizes the
papers published in a year range: counts per year, top journals, the most
common title words and a random sample.

The data file is read from --data, PVIEW_DATA_PATH, or data_path in the
global config, in that order.

All commands output JSON by default. Use --human for readable output, or
'pview serve' for the interactive dashboard.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	// Load .env file if present (for PVIEW_DATA_PATH)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Path to the metadata file (overrides config)")
	rootCmd.Version = Version
}

func initLogger(cmd *cobra.Command, args []string) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	tableCache = loader.NewCache(logger)
	return nil
}

// mustLoadSettings loads the global config with defaults applied, exits on error.
func mustLoadSettings() config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg.WithDefaults()
}

// mustResolveDataPath finds the data file, exits on error.
func mustResolveDataPath() string {
	path, err := config.ResolveDataPath(dataPath)
	if err != nil {
		if errors.Is(err, config.ErrDataPathNotConfigured) {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitConfigError, "%v", err)
	}
	return path
}

// mustLoadTable resolves, reads and cleans the data file, exits on error.
func mustLoadTable() *paper.Table {
	path := mustResolveDataPath()
	table, err := tableCache.Load(path)
	if err != nil {
		exitWithError(ExitDataError, "loading %s: %v", path, err)
	}
	return table
}
