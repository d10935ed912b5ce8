// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"featex/internal/archive"
	"featex/internal/batch"
	"featex/internal/discover"
	"featex/internal/features"
	"featex/internal/history"
	"featex/internal/llm"
	"featex/internal/secrets"
	"featex/internal/sink"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process all matching documents in the input directory",
	Long: `Run discovers documents matching the file pattern, extracts the configured
feature set from each through the inference provider, writes one spreadsheet
per document to the output directory, and archives the sources. A summary of
the batch is written as JSON and recorded in the run history database.

Extraction failures do not abort the batch; the affected source is moved to
the errors archive and the run continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		spec, err := features.Load(cfg.Paths.Features)
		if err != nil {
			return fmt.Errorf("loading feature schema: %w", err)
		}
		logger.Infow("loaded feature schema",
			"path", cfg.Paths.Features,
			"features", len(spec))

		apiKey := cfg.LLM.APIKey
		if apiKey == "" {
			apiKey, err = secrets.APIKey(cfg.LLM.Provider, loadedSecrets)
			if err != nil {
				return err
			}
		}

		client, err := llm.New(cfg.LLM.Provider, apiKey, cfg.LLM.Model, spec)
		if err != nil {
			return err
		}
		extractor := llm.NewExtractor(client, cfg.LLM.MaxRetries, cfg.LLM.BaseDelay, logger)

		processor := batch.NewProcessor(
			extractor,
			spec,
			&sink.Excel{OutputDir: cfg.Paths.OutputDir, Log: logger},
			&archive.Mover{ProcessedDir: cfg.Paths.ProcessedDir},
			logger,
		)

		// A nil *history.Store must not be assigned to the Recorder
		// interface, or the coordinator would call through it.
		var recorder batch.Recorder
		if cfg.Paths.HistoryDB != "" {
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				logger.Warnw("run history disabled", "path", cfg.Paths.HistoryDB, "error", err)
			} else {
				defer store.Close()
				recorder = store
			}
		}

		coordinator := batch.NewCoordinator(
			processor,
			cfg.Processing.BatchSize,
			cfg.Paths.SummaryFile,
			recorder,
			[]string{
				cfg.Paths.InputDir,
				cfg.Paths.OutputDir,
				cfg.Paths.ProcessedDir,
				filepath.Join(cfg.Paths.ProcessedDir, "errors"),
			},
			logger,
		)

		sources, err := discover.Discover(cfg.Paths.InputDir, cfg.Paths.FilePattern)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			logger.Infow("no documents to process",
				"input_dir", cfg.Paths.InputDir,
				"pattern", cfg.Paths.FilePattern)
			return nil
		}

		summary, err := coordinator.Run(cmd.Context(), sources)
		if err != nil {
			return err
		}

		logger.Infow("batch complete",
			"run_id", summary.RunID,
			"total", summary.TotalFiles,
			"succeeded", summary.SuccessCount,
			"failed", summary.ErrorCount,
			"success_rate", fmt.Sprintf("%.1f%%", summary.SuccessRate*100),
			"duration", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
		return nil
	},
}

func init() {
	runCmd.Flags().String("input-dir", "", "directory containing source documents")
	runCmd.Flags().String("output-dir", "", "directory for extracted spreadsheets")
	runCmd.Flags().String("pattern", "", "glob matched against input file names")
	runCmd.Flags().String("features", "", "feature schema file, one name per line")
	runCmd.Flags().String("provider", "", "inference provider: openai, anthropic, or groq")
	runCmd.Flags().String("model", "", "model identifier (default: provider default)")
	runCmd.Flags().Int("batch-size", 0, "number of documents processed concurrently")
	runCmd.Flags().Int("max-retries", 0, "total extraction attempts per document")

	viper.BindPFlag("paths.input_dir", runCmd.Flags().Lookup("input-dir"))
	viper.BindPFlag("paths.output_dir", runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("paths.file_pattern", runCmd.Flags().Lookup("pattern"))
	viper.BindPFlag("paths.features", runCmd.Flags().Lookup("features"))
	viper.BindPFlag("llm.provider", runCmd.Flags().Lookup("provider"))
	viper.BindPFlag("llm.model", runCmd.Flags().Lookup("model"))
	viper.BindPFlag("processing.batch_size", runCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("llm.max_retries", runCmd.Flags().Lookup("max-retries"))

	rootCmd.AddCommand(runCmd)
}
