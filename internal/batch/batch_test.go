// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"featex/internal/archive"
	"featex/pkg/types"
)

// countingProcessor records peak concurrent invocations.
type countingProcessor struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	outcome  types.ProcessingOutcome
}

func (c *countingProcessor) Process(_ context.Context, path string) types.ProcessingOutcome {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	out := c.outcome
	out.File = filepath.Base(path)
	return out
}

func writeSources(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("A 10 kW Acme generator."), 0o644))
	}
	return paths
}

func TestRunAllSucceed(t *testing.T) {
	tmp := t.TempDir()
	sources := writeSources(t, filepath.Join(tmp, "in"), "product_1.txt", "product_2.txt", "product_3.txt")
	processedDir := filepath.Join(tmp, "processed")
	summaryPath := filepath.Join(tmp, "extraction_summary.json")

	extractor := &stubExtractor{resp: types.RawResponse{Text: `{"brand": "Acme", "power": "10.0", "model": "X"}`}}
	log := zaptest.NewLogger(t).Sugar()
	processor := NewProcessor(extractor, testSpec, &memSink{}, &archive.Mover{ProcessedDir: processedDir}, log)
	c := NewCoordinator(processor, 2, summaryPath, nil, []string{processedDir}, log)

	summary, err := c.Run(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 3, summary.ProcessedFiles)
	assert.Equal(t, 3, summary.SuccessCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, 1.0, summary.SuccessRate)
	assert.NotEmpty(t, summary.RunID)

	// All sources end in the processed directory.
	for _, s := range sources {
		assert.NoFileExists(t, s)
		assert.FileExists(t, filepath.Join(processedDir, filepath.Base(s)))
	}

	// The summary artifact mirrors the returned summary.
	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var onDisk types.BatchSummary
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, summary.RunID, onDisk.RunID)
	assert.Equal(t, 3, onDisk.SuccessCount)
	assert.Len(t, onDisk.Files, 3)
}

func TestRunOneSinkFailure(t *testing.T) {
	tmp := t.TempDir()
	sources := writeSources(t, filepath.Join(tmp, "in"), "product_1.txt", "product_2.txt", "product_3.txt")
	processedDir := filepath.Join(tmp, "processed")

	extractor := &stubExtractor{resp: types.RawResponse{Text: `{"brand": "Acme"}`}}
	sink := &memSink{err: errors.New("disk full"), failFor: "product_2.txt"}
	log := zaptest.NewLogger(t).Sugar()
	processor := NewProcessor(extractor, testSpec, sink, &archive.Mover{ProcessedDir: processedDir}, log)
	c := NewCoordinator(processor, 3, "", nil, nil, log)

	summary, err := c.Run(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.InDelta(t, 2.0/3.0, summary.SuccessRate, 1e-9)

	var failedOutcome *types.ProcessingOutcome
	for i := range summary.Files {
		if !summary.Files[i].Success {
			failedOutcome = &summary.Files[i]
		}
	}
	require.NotNil(t, failedOutcome)
	assert.Equal(t, "product_2.txt", failedOutcome.File)
	assert.Contains(t, failedOutcome.Error, "output write error")

	// Failed source lands in the error archive, successes in processed.
	assert.FileExists(t, filepath.Join(processedDir, "errors", "product_2.txt"))
	assert.FileExists(t, filepath.Join(processedDir, "product_1.txt"))
	assert.FileExists(t, filepath.Join(processedDir, "product_3.txt"))
}

func TestRunEmptyBatch(t *testing.T) {
	tmp := t.TempDir()
	summaryPath := filepath.Join(tmp, "extraction_summary.json")
	proc := &countingProcessor{}
	c := NewCoordinator(proc, 5, summaryPath, nil, nil, zaptest.NewLogger(t).Sugar())

	summary, err := c.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalFiles)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, 0.0, summary.SuccessRate, "rate is defined as 0 for zero processed files")
	assert.Equal(t, 0, proc.peak, "no worker pool activity")
	assert.NoFileExists(t, summaryPath, "no summary artifact for a zero-activity batch")
}

func TestRunBoundsConcurrency(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = filepath.Join("in", "product_"+string(rune('a'+i))+".txt")
	}

	proc := &countingProcessor{outcome: types.ProcessingOutcome{Success: true}}
	c := NewCoordinator(proc, 4, "", nil, nil, zaptest.NewLogger(t).Sugar())

	summary, err := c.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 20, summary.ProcessedFiles)
	assert.LessOrEqual(t, proc.peak, 4, "never more than concurrencyLimit pipelines in flight")
	assert.Greater(t, proc.peak, 1, "pool actually runs items in parallel")
}

func TestRunEnsuresDirectories(t *testing.T) {
	tmp := t.TempDir()
	dirs := []string{
		filepath.Join(tmp, "out"),
		filepath.Join(tmp, "processed", "errors"),
	}
	c := NewCoordinator(&countingProcessor{}, 1, "", nil, dirs, zaptest.NewLogger(t).Sugar())

	_, err := c.Run(context.Background(), nil)
	require.NoError(t, err)
	for _, d := range dirs {
		assert.DirExists(t, d)
	}

	// Idempotent: a second run with existing directories is not an error.
	_, err = c.Run(context.Background(), nil)
	require.NoError(t, err)
}

func TestRunDirectorySetupFailureIsFatal(t *testing.T) {
	tmp := t.TempDir()
	// A file where a directory is required.
	blocker := filepath.Join(tmp, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	c := NewCoordinator(&countingProcessor{}, 1, "", nil, []string{filepath.Join(blocker, "sub")}, zaptest.NewLogger(t).Sugar())
	_, err := c.Run(context.Background(), []string{"a.txt"})
	require.Error(t, err)
}

// failingRecorder always fails; recording is a side artifact and must not
// change the batch result.
type failingRecorder struct{ called bool }

func (f *failingRecorder) Record(_ context.Context, _ types.BatchSummary) error {
	f.called = true
	return errors.New("history unavailable")
}

func TestRunSummaryPersistenceFailuresAreNonFatal(t *testing.T) {
	tmp := t.TempDir()
	// Unwritable summary path: its parent does not exist.
	summaryPath := filepath.Join(tmp, "missing-dir", "summary.json")
	recorder := &failingRecorder{}

	proc := &countingProcessor{outcome: types.ProcessingOutcome{Success: true}}
	c := NewCoordinator(proc, 2, summaryPath, recorder, nil, zaptest.NewLogger(t).Sugar())

	summary, err := c.Run(context.Background(), []string{"product_1.txt", "product_2.txt"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.True(t, recorder.called)
}

func TestNewCoordinatorDefaultsConcurrency(t *testing.T) {
	c := NewCoordinator(&countingProcessor{}, 0, "", nil, nil, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, types.DefaultBatchSize, c.concurrency)
}
