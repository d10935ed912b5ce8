// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the extraction pipeline:
// the feature schema, work item lifecycle, per-document outcomes, batch
// summaries, and configuration.
package types

// FeatureSpec is the ordered set of feature names every document is
// evaluated against. Names are unique. The schema is immutable for the
// duration of a batch and is the sole source of truth for the shape of a
// FeatureSet.
type FeatureSpec []string

// Contains reports whether name is part of the schema.
func (s FeatureSpec) Contains(name string) bool {
	for _, f := range s {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureSet maps every name in a FeatureSpec to a typed value: nil, int64,
// float64, bool, or string (values the inference service returned as JSON
// numbers arrive as float64). The key set always equals the schema exactly.
type FeatureSet map[string]any

// Found returns the number of non-nil values.
func (fs FeatureSet) Found() int {
	n := 0
	for _, v := range fs {
		if v != nil {
			n++
		}
	}
	return n
}

// RawResponse is the unmodified output of one inference call plus optional
// token accounting.
type RawResponse struct {
	Text       string
	TokenUsage map[string]int
}
