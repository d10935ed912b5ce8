// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"featex/pkg/types"
)

// ItemProcessor is the per-document pipeline run by the worker pool.
type ItemProcessor interface {
	Process(ctx context.Context, path string) types.ProcessingOutcome
}

// Recorder persists a batch summary to the run-history store.
type Recorder interface {
	Record(ctx context.Context, summary types.BatchSummary) error
}

// Coordinator drives a batch: it bounds concurrency over the ItemProcessor,
// collects outcomes as items complete, and aggregates them into a summary.
type Coordinator struct {
	processor   ItemProcessor
	concurrency int
	summaryPath string
	history     Recorder // optional
	ensureDirs  []string
	log         *zap.SugaredLogger
}

// NewCoordinator builds a Coordinator. A non-positive concurrency falls back
// to the default batch size. history may be nil to disable run recording;
// ensureDirs are created before any item runs.
func NewCoordinator(processor ItemProcessor, concurrency int, summaryPath string, history Recorder, ensureDirs []string, log *zap.SugaredLogger) *Coordinator {
	if concurrency < 1 {
		concurrency = types.DefaultBatchSize
	}
	return &Coordinator{
		processor:   processor,
		concurrency: concurrency,
		summaryPath: summaryPath,
		history:     history,
		ensureDirs:  ensureDirs,
		log:         log,
	}
}

// Run processes every source path to a terminal outcome and returns the
// batch summary. Outcomes are collected in completion order. The returned
// error is non-nil only for batch-scoped setup failures (unwritable required
// directories); item failures surface through the summary, never as errors.
func (c *Coordinator) Run(ctx context.Context, sources []string) (types.BatchSummary, error) {
	summary := types.BatchSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	for _, dir := range c.ensureDirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if len(sources) == 0 {
		c.log.Warnw("no files to process")
		summary.FinishedAt = time.Now().UTC()
		summary.Files = []types.ProcessingOutcome{}
		return summary, nil
	}

	summary.TotalFiles = len(sources)
	c.log.Infow("starting batch", "run_id", summary.RunID, "files", len(sources), "workers", c.concurrency)

	jobs := make(chan string, len(sources))
	results := make(chan types.ProcessingOutcome, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < c.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- c.processor.Process(ctx, path)
			}
		}()
	}

	for _, path := range sources {
		jobs <- path
	}
	close(jobs)

	wg.Wait()
	close(results)

	for outcome := range results {
		summary.Files = append(summary.Files, outcome)
		if outcome.Success {
			summary.SuccessCount++
		} else {
			summary.ErrorCount++
		}
	}

	summary.ProcessedFiles = len(summary.Files)
	if summary.ProcessedFiles > 0 {
		summary.SuccessRate = float64(summary.SuccessCount) / float64(summary.ProcessedFiles)
	}
	summary.FinishedAt = time.Now().UTC()

	c.log.Infow("batch complete",
		"run_id", summary.RunID,
		"processed", summary.ProcessedFiles,
		"succeeded", summary.SuccessCount,
		"failed", summary.ErrorCount,
		"success_rate", summary.SuccessRate,
	)

	c.persistSummary(ctx, summary)
	return summary, nil
}

// persistSummary writes the summary artifact and records the run in the
// history store. Both are side artifacts: a failure is logged and never
// changes the batch result.
func (c *Coordinator) persistSummary(ctx context.Context, summary types.BatchSummary) {
	if c.summaryPath != "" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err == nil {
			err = os.WriteFile(c.summaryPath, data, 0o644)
		}
		if err != nil {
			c.log.Warnw("failed to write summary artifact", "path", c.summaryPath, "error", err)
		} else {
			c.log.Infow("wrote summary artifact", "path", c.summaryPath)
		}
	}

	if c.history != nil {
		if err := c.history.Record(ctx, summary); err != nil {
			c.log.Warnw("failed to record run history", "run_id", summary.RunID, "error", err)
		}
	}
}
