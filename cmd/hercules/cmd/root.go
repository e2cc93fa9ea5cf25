package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/puffinc/hercules/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	maxKeyLen      int
	workers        int
	reportFormat   string
	noColor        bool
	timeoutSeconds int
)

var rootCmd = &cobra.Command{
	Use:   "hercules",
	Short: "Tabular dataset profiler and business key finder",
	Long: `Hercules profiles a tabular dataset (CSV file or SQL table) and finds
the minimal column combinations that uniquely identify every row.

Features:
  - Shape, missing values, summary statistics, value classes and patterns
  - Business key discovery with nullable and superset pruning
  - Parallel candidate evaluation with deterministic results
  - CSV, MySQL, PostgreSQL, SQLite and SQL Server sources
  - Text, JSON and YAML reports`,
	Version:      Version,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "hercules.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Discovery overrides
	rootCmd.PersistentFlags().IntVar(&maxKeyLen, "max-key-len", 0,
		"Override the largest key size to test")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override the number of parallel evaluation workers")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0,
		"Stop key discovery after this many seconds and report partial results")

	// Report overrides
	rootCmd.PersistentFlags().StringVarP(&reportFormat, "format", "f", "",
		"Override report format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored text output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel       string
	LogFormat      string
	MaxKeyLen      int
	Workers        int
	Format         string
	NoColor        bool
	TimeoutSeconds int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		MaxKeyLen:      maxKeyLen,
		Workers:        workers,
		Format:         reportFormat,
		NoColor:        noColor,
		TimeoutSeconds: timeoutSeconds,
	}
}

// loadConfig reads the config file and applies flag overrides. A missing
// file is only an error when --config was given explicitly; otherwise the
// defaults are used. A positional argument names a CSV file to profile.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path := GetConfigFile()

	var cfg *config.Config
	_, statErr := os.Stat(path)
	switch {
	case path != "" && statErr == nil:
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case cmd.Flags().Changed("config"):
		return nil, fmt.Errorf("failed to load config: %w", statErr)
	default:
		cfg = config.DefaultConfig()
	}

	o := GetCLIOverrides()
	overrides := config.Overrides{
		LogLevel:       o.LogLevel,
		LogFormat:      o.LogFormat,
		MaxKeyLen:      o.MaxKeyLen,
		Workers:        o.Workers,
		Format:         o.Format,
		NoColor:        o.NoColor,
		TimeoutSeconds: o.TimeoutSeconds,
	}
	if len(args) > 0 {
		overrides.SourcePath = args[0]
	}
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
