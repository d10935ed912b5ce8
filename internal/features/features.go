// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package features loads the feature schema that every document in a batch
// is evaluated against.
package features

import (
	"fmt"
	"os"
	"strings"

	"featex/pkg/types"
)

// Load reads a feature schema file: one feature name per non-blank line,
// leading and trailing whitespace trimmed. Duplicate names are dropped,
// keeping the first occurrence. An empty schema is an error because it
// would make every batch a no-op.
func Load(path string) (types.FeatureSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading features file %s: %w", path, err)
	}

	var spec types.FeatureSpec
	seen := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		spec = append(spec, name)
	}

	if len(spec) == 0 {
		return nil, fmt.Errorf("features file %s is empty", path)
	}
	return spec, nil
}
