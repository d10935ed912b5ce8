// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lists the source documents a batch run will process.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDiscovery marks a failure to list the input directory. It is fatal for
// the whole batch: no item runs when discovery fails.
var ErrDiscovery = errors.New("work discovery failed")

// Discover returns the paths of files in inputDir whose base name matches
// pattern (filepath.Match syntax). An empty result is not an error; it
// yields a zero-activity batch. A missing or unreadable input directory is.
func Discover(inputDir, pattern string) ([]string, error) {
	if _, err := os.Stat(inputDir); err != nil {
		return nil, fmt.Errorf("%w: input directory %s: %v", ErrDiscovery, inputDir, err)
	}

	matches, err := filepath.Glob(filepath.Join(inputDir, pattern))
	if err != nil {
		// Only a malformed pattern reaches here.
		return nil, fmt.Errorf("%w: bad file pattern %q: %v", ErrDiscovery, pattern, err)
	}

	// Glob can match directories; keep regular files only.
	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}
