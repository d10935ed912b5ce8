// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		wantReset     []string
		wantBatchSize int
	}{
		{
			name:          "valid config untouched",
			mutate:        func(c *Config) { c.Processing.BatchSize = 8 },
			wantReset:     nil,
			wantBatchSize: 8,
		},
		{
			name:          "zero batch size falls back to default",
			mutate:        func(c *Config) { c.Processing.BatchSize = 0 },
			wantReset:     []string{"processing.batch_size"},
			wantBatchSize: DefaultBatchSize,
		},
		{
			name:          "negative batch size falls back to default",
			mutate:        func(c *Config) { c.Processing.BatchSize = -3 },
			wantReset:     []string{"processing.batch_size"},
			wantBatchSize: DefaultBatchSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			reset := cfg.Sanitize()

			if len(reset) != len(tt.wantReset) {
				t.Fatalf("reset = %v, want %v", reset, tt.wantReset)
			}
			for i := range reset {
				if reset[i] != tt.wantReset[i] {
					t.Errorf("reset[%d] = %q, want %q", i, reset[i], tt.wantReset[i])
				}
			}
			if cfg.Processing.BatchSize != tt.wantBatchSize {
				t.Errorf("batch size = %d, want %d", cfg.Processing.BatchSize, tt.wantBatchSize)
			}
		})
	}
}

func TestSanitizeRetrySettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.MaxRetries = 0
	cfg.LLM.BaseDelay = -time.Second

	reset := cfg.Sanitize()

	if len(reset) != 2 {
		t.Fatalf("reset = %v, want 2 entries", reset)
	}
	if cfg.LLM.MaxRetries != DefaultMaxRetries {
		t.Errorf("max retries = %d, want %d", cfg.LLM.MaxRetries, DefaultMaxRetries)
	}
	if cfg.LLM.BaseDelay != DefaultBaseDelay {
		t.Errorf("base delay = %v, want %v", cfg.LLM.BaseDelay, DefaultBaseDelay)
	}
}

func TestFeatureSetFound(t *testing.T) {
	fs := FeatureSet{"a": "x", "b": nil, "c": int64(3), "d": nil}
	if got := fs.Found(); got != 2 {
		t.Errorf("Found() = %d, want 2", got)
	}
}

func TestFeatureSpecContains(t *testing.T) {
	spec := FeatureSpec{"brand", "power"}
	if !spec.Contains("brand") {
		t.Error("expected Contains(brand) = true")
	}
	if spec.Contains("weight") {
		t.Error("expected Contains(weight) = false")
	}
}
