// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the extraction pipeline: a bounded worker pool drives
// one Processor invocation per discovered document and aggregates the
// per-item outcomes into a batch summary.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"featex/internal/parse"
	"featex/pkg/types"
)

// Extractor produces the raw inference response for one document.
type Extractor interface {
	Extract(ctx context.Context, document string) (types.RawResponse, error)
}

// Sink persists a normalized feature map for the named source document.
type Sink interface {
	Persist(source string, spec types.FeatureSpec, features types.FeatureSet) (string, error)
}

// Archiver relocates a source document to its terminal location.
type Archiver interface {
	Move(path string, failed bool) (string, error)
}

// Processor runs the full single-document pipeline: load → extract →
// normalize → persist → archive. Every failure converts into a recorded
// outcome instead of an error; a failed item never halts the batch.
type Processor struct {
	extractor Extractor
	spec      types.FeatureSpec
	sink      Sink
	archiver  Archiver
	log       *zap.SugaredLogger
}

// NewProcessor assembles the single-document pipeline.
func NewProcessor(extractor Extractor, spec types.FeatureSpec, sink Sink, archiver Archiver, log *zap.SugaredLogger) *Processor {
	return &Processor{extractor: extractor, spec: spec, sink: sink, archiver: archiver, log: log}
}

// Process runs the pipeline for one source document. Each stage failure
// short-circuits the remaining stages and moves the source to the error
// archive — except a failure in the move itself, which is only reported so
// the pipeline does not loop on archival.
func (p *Processor) Process(ctx context.Context, path string) types.ProcessingOutcome {
	item := types.NewWorkItem(path)
	outcome := types.ProcessingOutcome{File: item.ID}

	p.log.Infow("processing", "file", item.ID)

	document, err := load(path)
	if err != nil {
		p.log.Errorw("failed to read source file", "file", item.ID, "error", err)
		return p.fail(item, outcome, fmt.Sprintf("file read error: %v", err))
	}
	if strings.TrimSpace(document) == "" {
		p.log.Warnw("source file is empty", "file", item.ID)
	}

	item.Advance(types.StateExtracting)
	resp, err := p.extractor.Extract(ctx, document)
	if err != nil {
		p.log.Errorw("feature extraction failed", "file", item.ID, "error", err)
		return p.fail(item, outcome, fmt.Sprintf("extraction error: %v", err))
	}

	features := parse.Normalize(resp.Text, p.spec, p.log)
	outcome.FeaturesFound = features.Found()

	artifact, err := p.sink.Persist(path, p.spec, features)
	if err != nil {
		p.log.Errorw("failed to persist features", "file", item.ID, "error", err)
		return p.fail(item, outcome, fmt.Sprintf("output write error: %v", err))
	}

	if _, err := p.archiver.Move(path, false); err != nil {
		// Extraction and persistence succeeded, but a source left in place
		// would be reprocessed on the next run, so the item is still failed.
		// The already-written artifact stays; no rollback.
		p.log.Errorw("failed to archive source file", "file", item.ID, "error", err)
		item.Advance(types.StateFailed)
		outcome.Error = fmt.Sprintf("file move error: %v", err)
		return outcome
	}

	item.Advance(types.StateSucceeded)
	item.Advance(types.StateArchived)
	outcome.Success = true

	p.log.Infow("processed",
		"file", item.ID,
		"state", item.State.String(),
		"features_found", outcome.FeaturesFound,
		"features_total", len(p.spec),
		"artifact", artifact,
		"tokens", resp.TokenUsage,
	)
	return outcome
}

// fail records the error, moves the source to the error archive, and marks
// the item terminal.
func (p *Processor) fail(item *types.WorkItem, outcome types.ProcessingOutcome, msg string) types.ProcessingOutcome {
	outcome.Error = msg
	item.Advance(types.StateFailed)

	if _, err := p.archiver.Move(item.SourcePath, true); err != nil {
		p.log.Errorw("failed to move source to error archive", "file", item.ID, "error", err)
		return outcome
	}
	item.Advance(types.StateArchived)
	return outcome
}

// load reads the document text. Files that are not valid UTF-8 are decoded
// byte-preserving with invalid sequences replaced, matching the lenient
// handling of legacy single-byte encodings.
func load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}
