// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"featex/pkg/types"
)

func TestNormalize(t *testing.T) {
	spec := types.FeatureSpec{"brand", "power", "model"}

	tests := []struct {
		name string
		raw  string
		want types.FeatureSet
	}{
		{
			name: "object wrapped in prose",
			raw:  `Sure! {"brand": "Acme", "power": "10.0"} Thanks.`,
			want: types.FeatureSet{"brand": "Acme", "power": 10.0, "model": nil},
		},
		{
			name: "bare object",
			raw:  `{"brand": "Acme", "power": "500", "model": "X-1"}`,
			want: types.FeatureSet{"brand": "Acme", "power": int64(500), "model": "X-1"},
		},
		{
			name: "extra keys dropped",
			raw:  `{"brand": "Acme", "weight": "3.2", "color": "red"}`,
			want: types.FeatureSet{"brand": "Acme", "power": nil, "model": nil},
		},
		{
			name: "no JSON object",
			raw:  "I could not find any features in this text.",
			want: types.FeatureSet{"brand": nil, "power": nil, "model": nil},
		},
		{
			name: "unbalanced object",
			raw:  `{"brand": "Acme", "power": 3`,
			want: types.FeatureSet{"brand": nil, "power": nil, "model": nil},
		},
		{
			name: "malformed JSON",
			raw:  `{brand: Acme}`,
			want: types.FeatureSet{"brand": nil, "power": nil, "model": nil},
		},
		{
			name: "empty response",
			raw:  "",
			want: types.FeatureSet{"brand": nil, "power": nil, "model": nil},
		},
		{
			name: "explicit nulls stay nil",
			raw:  `{"brand": null, "power": null, "model": null}`,
			want: types.FeatureSet{"brand": nil, "power": nil, "model": nil},
		},
		{
			name: "braces in prose before the object are part of the scan",
			raw:  `Here {"brand": "Acme"} and later {"noise": 1}`,
			want: types.FeatureSet{"brand": "Acme", "power": nil, "model": nil},
		},
		{
			name: "braces inside string values do not truncate the object",
			raw:  `{"brand": "Acme {pro}", "model": "X"}`,
			want: types.FeatureSet{"brand": "Acme {pro}", "power": nil, "model": "X"},
		},
		{
			name: "nested structures pass through",
			raw:  `{"brand": {"name": "Acme"}, "power": [1, 2]}`,
			want: types.FeatureSet{"brand": map[string]any{"name": "Acme"}, "power": []any{1.0, 2.0}, "model": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, spec, zaptest.NewLogger(t).Sugar())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeKeySetMatchesSpec(t *testing.T) {
	spec := types.FeatureSpec{"a", "b", "c", "d"}
	raw := `{"a": 1, "x": 2, "y": 3}`

	got := Normalize(raw, spec, zaptest.NewLogger(t).Sugar())

	if len(got) != len(spec) {
		t.Fatalf("key count = %d, want %d", len(got), len(spec))
	}
	for _, f := range spec {
		if _, ok := got[f]; !ok {
			t.Errorf("missing key %q", f)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	spec := types.FeatureSpec{"brand", "power", "sealed", "model"}
	raw := `{"brand": "Acme", "power": "10.5", "sealed": "TRUE", "model": null}`
	log := zaptest.NewLogger(t).Sugar()

	first := Normalize(raw, spec, log)

	// Re-serialize the normalized map and normalize again; typed values must
	// pass through unchanged.
	second := Normalize(`{"brand": "Acme", "power": 10.5, "sealed": true}`, spec, log)

	if first["brand"] != second["brand"] || first["power"] != second["power"] || first["sealed"] != second["sealed"] {
		t.Errorf("normalization not idempotent: first=%#v second=%#v", first, second)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"decimal string", "100.5", 100.5},
		{"negative integer string", "-3", int64(-3)},
		{"integer string", "42", int64(42)},
		{"padded numeric string", " 7 ", int64(7)},
		{"true lowercase", "true", true},
		{"false mixed case", "FaLsE", false},
		{"plain string", "stainless steel", "stainless steel"},
		{"number passes through", 3.14, 3.14},
		{"bool passes through", true, true},
		{"almost numeric", "10.5kW", "10.5kW"},
		{"double dot", "1.2.3", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerce(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("coerce(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"wrapped", `before {"a":1} after`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"\""}`, `{"a":"\""}`, true},
		{"no object", "nothing here", "", false},
		{"never closes", `{"a":1`, "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractObject(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("extractObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
