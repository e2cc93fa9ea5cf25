package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/database"
	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate [csv-file]",
	Short: "Validate configuration and check the source is reachable",
	Long: `Validate checks the configuration file and the data source without
profiling anything.

Checks performed:
  - Configuration syntax and required fields
  - CSV file or s3:// object exists and the delimiter is usable
  - Database connectivity for SQL sources
  - Table name or query can be turned into a statement

Example:
  hercules validate --config hercules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting validation checks...")

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("Source: %s (%s)\n", cfg.Source.Name(), sourceType(&cfg.Source))
	cmd.Printf("Max key length: %d, workers: %d\n\n", cfg.Discovery.MaxKeyLen, cfg.Discovery.Workers)

	if cfg.Source.IsSQL() {
		err = checkSQLSource(cmd, &cfg.Source, log)
	} else {
		err = checkCSVSource(cmd, &cfg.Source)
	}
	if err != nil {
		cmd.Printf("❌ Source check failed: %v\n\n", err)
		return fmt.Errorf("validation failed: %w", err)
	}

	cmd.Println("=== Validation Complete ===")
	cmd.Println("✅ Configuration is valid")
	return nil
}

func sourceType(cfg *config.SourceConfig) string {
	if cfg.Type == "" {
		return config.SourceCSV
	}
	return cfg.Type
}

func checkCSVSource(cmd *cobra.Command, cfg *config.SourceConfig) error {
	if _, err := source.CSVOptionsFrom(cfg); err != nil {
		return err
	}
	if source.IsObjectURL(cfg.Path) {
		size, err := source.StatObject(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		cmd.Printf("Object size: %d bytes\n", size)
		return nil
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", cfg.Path)
	}
	return nil
}

func checkSQLSource(cmd *cobra.Command, cfg *config.SourceConfig, log *logger.Logger) error {
	mgr := database.NewManager(cfg, log)
	if err := mgr.Connect(cmd.Context()); err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	stmt, err := source.Statement(mgr.Dialect(), cfg)
	if err != nil {
		return err
	}
	cmd.Printf("Statement: %s\n", stmt)
	return nil
}
