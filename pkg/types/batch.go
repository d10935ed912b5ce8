// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// ItemState is a stage in the work item lifecycle. Transitions are
// monotonic: Discovered → Extracting → {Succeeded, Failed} → Archived.
type ItemState int

const (
	StateDiscovered ItemState = iota
	StateExtracting
	StateSucceeded
	StateFailed
	StateArchived
)

// String returns the lowercase state name for logging.
func (s ItemState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateExtracting:
		return "extracting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateArchived:
		return "archived"
	}
	return "unknown"
}

// WorkItem is one document slated for processing.
type WorkItem struct {
	ID         string
	SourcePath string
	State      ItemState
}

// NewWorkItem creates an item in the Discovered state. The ID is the
// source file's base name.
func NewWorkItem(sourcePath string) *WorkItem {
	return &WorkItem{
		ID:         filepath.Base(sourcePath),
		SourcePath: sourcePath,
		State:      StateDiscovered,
	}
}

// Advance moves the item forward. An item never returns to an earlier
// state; regressions are ignored.
func (w *WorkItem) Advance(next ItemState) {
	if next > w.State {
		w.State = next
	}
}

// ProcessingOutcome records the terminal result of one work item. Immutable
// once produced.
type ProcessingOutcome struct {
	File          string `json:"file"`
	Success       bool   `json:"success"`
	FeaturesFound int    `json:"features_found"`
	Error         string `json:"error,omitempty"`
}

// BatchSummary aggregates the outcomes of one batch run. Built once after
// every item has reached a terminal state.
type BatchSummary struct {
	RunID          string              `json:"run_id"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	TotalFiles     int                 `json:"total_files"`
	ProcessedFiles int                 `json:"processed_files"`
	SuccessCount   int                 `json:"success_count"`
	ErrorCount     int                 `json:"error_count"`
	SuccessRate    float64             `json:"success_rate"`
	Files          []ProcessingOutcome `json:"files"`
}
