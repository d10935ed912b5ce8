// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"featex/pkg/types"
)

// ErrExhausted is returned when every extraction attempt has failed. The
// wrapped chain carries the last underlying provider error.
var ErrExhausted = errors.New("extraction attempts exhausted")

// Extractor wraps a Client with bounded retry. A failed attempt is followed
// by a wait of baseDelay * 2^(attempt-1) — exponential backoff, no jitter —
// before the next one. An in-flight call always runs to completion; the
// context is only consulted during backoff waits.
type Extractor struct {
	client     Client
	maxRetries int
	baseDelay  time.Duration
	log        *zap.SugaredLogger
}

// NewExtractor builds an Extractor. Non-positive maxRetries or baseDelay
// fall back to the defaults (3 attempts, 2s base).
func NewExtractor(client Client, maxRetries int, baseDelay time.Duration, log *zap.SugaredLogger) *Extractor {
	if maxRetries < 1 {
		maxRetries = types.DefaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = types.DefaultBaseDelay
	}
	return &Extractor{client: client, maxRetries: maxRetries, baseDelay: baseDelay, log: log}
}

// Extract performs up to maxRetries calls against the underlying client and
// returns the first success. When every attempt fails it reports exhaustion
// instead of synthesizing a fallback value. Each retry is logged as a
// warning, the final exhaustion as an error.
func (e *Extractor) Extract(ctx context.Context, document string) (types.RawResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(math.Pow(2, float64(attempt-2))) * e.baseDelay
			e.log.Warnw("extraction attempt failed, retrying",
				"attempt", attempt-1,
				"max_attempts", e.maxRetries,
				"backoff", backoff,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return types.RawResponse{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := e.client.Extract(ctx, document)
		if err == nil {
			e.log.Debugw("extraction succeeded", "attempt", attempt)
			return resp, nil
		}
		lastErr = err
	}

	e.log.Errorw("extraction failed after all attempts",
		"attempts", e.maxRetries,
		"error", lastErr,
	)
	return types.RawResponse{}, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, e.maxRetries, lastErr)
}
