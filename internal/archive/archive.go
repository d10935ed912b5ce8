// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive relocates source documents to their terminal location so
// a future batch never reprocesses them.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// errorsSubdir receives sources whose pipeline failed at any stage.
const errorsSubdir = "errors"

// Mover moves processed sources under ProcessedDir. Failed sources land in
// ProcessedDir/errors.
type Mover struct {
	ProcessedDir string
}

// Move relocates path into the processed (or error) location and returns
// the destination. The destination directory is created on demand.
func (m *Mover) Move(path string, failed bool) (string, error) {
	destDir := m.ProcessedDir
	if failed {
		destDir = filepath.Join(m.ProcessedDir, errorsSubdir)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if copyErr := copyFile(path, dest); copyErr != nil {
			return "", fmt.Errorf("moving %s: %w", path, err)
		}
		if rmErr := os.Remove(path); rmErr != nil {
			return "", fmt.Errorf("removing source after copy: %w", rmErr)
		}
	}
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
