package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/database"
	"github.com/puffinc/hercules/internal/keys"
	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/profile"
	"github.com/puffinc/hercules/internal/report"
	"github.com/puffinc/hercules/internal/source"
)

// ErrIncomplete is returned after a partial report was written because key
// discovery was interrupted or timed out.
var ErrIncomplete = errors.New("key discovery incomplete")

// runPipeline loads the dataset, optionally profiles it, searches for keys
// and writes the report.
func runPipeline(cmd *cobra.Command, args []string, withProfile bool, keysOnly bool) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if keysOnly {
		cfg.Report.KeysOnly = true
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.WithRun(runID)

	ctx, stop := database.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received signal, stopping", "signal", sig.String())
	})
	defer stop()

	log.Infow("Starting run", "source", cfg.Source.Name(), "max_key_len", cfg.Discovery.MaxKeyLen,
		"workers", cfg.Discovery.Workers)

	ds, err := source.Open(ctx, &cfg.Source, log)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	rep := &report.Report{
		RunID:       runID,
		Source:      cfg.Source.Name(),
		GeneratedAt: time.Now().UTC(),
		MaxKeyLen:   cfg.Discovery.MaxKeyLen,
	}

	if withProfile {
		prof, err := profile.NewProfiler(profile.Options{SampleRows: cfg.Report.SampleRows}, log).Run(ctx, ds)
		if err != nil {
			return fmt.Errorf("profiling failed: %w", err)
		}
		rep.Profile = prof
	}

	res, discoverErr := discover(ctx, cfg, ds, log)
	if discoverErr != nil {
		if !errors.Is(discoverErr, context.DeadlineExceeded) && !errors.Is(discoverErr, context.Canceled) {
			return fmt.Errorf("key discovery failed: %w", discoverErr)
		}
		log.Warnw("Key discovery stopped early", "error", discoverErr, "verdicts", len(res.Verdicts))
		rep.Incomplete = discoverErr.Error()
	}
	rep.Keys = res

	if err := writeReport(cmd, rep, cfg); err != nil {
		return err
	}
	if rep.Incomplete != "" {
		return fmt.Errorf("%w: %v", ErrIncomplete, discoverErr)
	}

	log.Infow("Run complete", "keys", len(res.Alternates), "candidates", res.Stats.Candidates)
	return nil
}

// discover runs the key engine under the configured timeout.
func discover(ctx context.Context, cfg *config.Config, ds keys.Dataset, log *logger.Logger) (*keys.Result, error) {
	if cfg.Discovery.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Discovery.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	engine := keys.NewEngine(keys.Options{
		MaxKeyLen: cfg.Discovery.MaxKeyLen,
		Workers:   cfg.Discovery.Workers,
		ChunkSize: cfg.Discovery.ChunkSize,
	}, log)
	return engine.Discover(ctx, ds)
}

// writeReport renders to the command's output for stdout so callers can
// capture it, or to the configured file.
func writeReport(cmd *cobra.Command, rep *report.Report, cfg *config.Config) error {
	opts := report.Options{
		Format:   cfg.Report.Format,
		Color:    cfg.Report.Color,
		KeysOnly: cfg.Report.KeysOnly,
	}

	out := cfg.Report.Output
	if out == "" || out == "stdout" {
		return report.Render(cmd.OutOrStdout(), rep, opts)
	}
	opts.Color = false
	if err := report.Write(rep, opts, out); err != nil {
		return err
	}
	cmd.Printf("Report written to %s\n", out)
	return nil
}
