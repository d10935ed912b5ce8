// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key, groq-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey resolves the inference API key for a provider: the
// <PROVIDER>_API_KEY environment variable wins, then the loaded secret file
// <provider>-api-key. Missing keys are an error because no extraction can
// start without one.
func APIKey(provider string, secrets map[string]string) (string, error) {
	envVar := strings.ToUpper(provider) + "_API_KEY"
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	if v, ok := secrets[strings.ToLower(provider)+"-api-key"]; ok {
		return v, nil
	}
	return "", fmt.Errorf("API key for provider %s not found: set %s or add .secrets/%s-api-key", provider, envVar, strings.ToLower(provider))
}
