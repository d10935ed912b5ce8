// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls an external text-inference service to extract named
// features from free-form documents. The service is abstracted behind the
// Client interface; Extractor adds bounded retry with exponential backoff
// on top of any Client.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"featex/pkg/types"
)

// Client is one inference backend. Extract sends a single document and
// returns the provider's raw textual response. Implementations treat every
// failure as opaque; classifying it as transient is the Extractor's job.
type Client interface {
	Extract(ctx context.Context, document string) (types.RawResponse, error)
}

// extractionPromptTmpl instructs the model to return one JSON object with
// the feature names as keys. The surrounding pipeline tolerates prose around
// the object, but the rules below keep responses parseable.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Extract the following features from this product description. Return ONLY a valid JSON object with the feature names as keys.

Product description: {{.Document}}

Features to extract:
{{.Features}}

Rules:
- Use null for missing values
- Extract only numbers without units (e.g. 5 instead of 5 mm, 26.3 instead of 26.3 kW)
- Ensure that the extracted values are normalized (e.g. "5/3 mm" should be "1.67")
- For boolean features use true/false
- Don't guess values that aren't directly stated or clearly implied
- If a feature has a range (e.g., "5-10 kW"), extract the maximum value (10)
- Format percentage values as decimals (0.25 instead of 25%)

Return format: { "feature1": value1, "feature2": value2, ... }
`))

// renderPrompt executes the extraction prompt template for one document.
func renderPrompt(document string, spec types.FeatureSpec) (string, error) {
	names := make([]string, len(spec))
	for i, f := range spec {
		names[i] = "- " + f
	}

	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct {
		Document string
		Features string
	}{Document: document, Features: strings.Join(names, "\n")})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
