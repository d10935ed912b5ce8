// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns the raw textual output of an inference call into a
// typed feature map keyed by the batch's feature schema.
package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"featex/pkg/types"
)

// numericPattern matches integer and decimal literals, optionally negative.
var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Normalize parses the JSON object embedded in raw and returns a FeatureSet
// whose key set equals spec exactly. It is a total function: malformed or
// missing JSON degrades to an all-nil map with a diagnostic log entry, never
// an error.
//
// Features absent from the parsed object stay nil. String values that look
// numeric are coerced to int64 or float64 (decimal point present → float),
// case-insensitive "true"/"false" strings become bool, everything else
// passes through unchanged. Keys outside the schema are dropped.
func Normalize(raw string, spec types.FeatureSpec, log *zap.SugaredLogger) types.FeatureSet {
	out := make(types.FeatureSet, len(spec))
	for _, f := range spec {
		out[f] = nil
	}

	candidate, ok := extractObject(raw)
	if !ok {
		log.Warnw("no JSON object found in response")
		return out
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		log.Errorw("failed to parse response JSON", "error", err)
		return out
	}

	for _, f := range spec {
		v, present := parsed[f]
		if !present || v == nil {
			continue
		}
		out[f] = coerce(v)
	}

	return out
}

// extractObject locates the first embedded JSON object in s with a
// delimiter-balanced scan: starting at the first '{', braces inside string
// literals are ignored and nesting is tracked until the matching '}'.
// Providers are expected to return a single object, possibly wrapped in
// explanatory prose.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// coerce converts loosely-typed string values into their semantic types.
// Non-string values (numbers, booleans, nested structures) pass through.
func coerce(v any) any {
	s, isString := v.(string)
	if !isString {
		return v
	}

	trimmed := strings.TrimSpace(s)
	if numericPattern.MatchString(trimmed) {
		if strings.Contains(trimmed, ".") {
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return f
			}
		} else if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
		return s
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}
