// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"strings"

	"featex/pkg/types"
)

// Default models used when the configuration does not name one.
const (
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-3-5-sonnet-20240620"
	defaultGroqModel      = "llama3-70b-8192"
)

// Providers lists the supported provider names.
var Providers = []string{"anthropic", "groq", "openai"}

// New builds the inference client for the named provider. An empty model
// selects the provider default. Unknown providers are an error.
func New(provider, apiKey, model string, spec types.FeatureSpec) (Client, error) {
	switch strings.ToLower(provider) {
	case "openai":
		if model == "" {
			model = defaultOpenAIModel
		}
		return &OpenAIClient{APIKey: apiKey, Model: model, URL: openaiAPIURL, Spec: spec}, nil
	case "groq":
		if model == "" {
			model = defaultGroqModel
		}
		return &OpenAIClient{APIKey: apiKey, Model: model, URL: groqAPIURL, Spec: spec}, nil
	case "anthropic":
		if model == "" {
			model = defaultAnthropicModel
		}
		return &AnthropicClient{APIKey: apiKey, Model: model, Spec: spec}, nil
	}
	return nil, fmt.Errorf("unsupported provider %q (supported: %s)", provider, strings.Join(Providers, ", "))
}
