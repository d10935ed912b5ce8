//go:build mage

// Package main contains Mage build targets for featex developer tooling.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// projectDirs lists the working directories a batch run expects.
var projectDirs = []string{
	"input_files",
	"output_files",
	"processed_files/errors",
}

// Init creates the project directory structure and a starter feature schema.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	if _, err := os.Stat("features.txt"); os.IsNotExist(err) {
		seed := "brand\nmodel\nprice\nweight\ncolor\n"
		if err := os.WriteFile("features.txt", []byte(seed), 0o644); err != nil {
			return fmt.Errorf("writing features.txt: %w", err)
		}
		fmt.Println("   features.txt (starter schema)")
	}

	fmt.Println("Project initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "featex"
	cmdPkg  = "./cmd/featex"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	cmd := exec.Command("go", "build", "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Clean removes build artifacts and generated batch output.
func Clean() error {
	for _, path := range []string{binDir, "extraction_summary.json"} {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	fmt.Println("Cleaned.")
	return nil
}
