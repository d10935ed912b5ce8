// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"featex/internal/httputil"
	"featex/pkg/types"
)

// anthropicAPIURL is the Messages API endpoint. Package-level var for test
// substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	APIKey string
	Model  string
	Spec   types.FeatureSpec
	Client *http.Client
}

// anthropicRequest is the request body for the Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage is a single message in the conversation.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Usage   anthropicUsage     `json:"usage"`
}

// anthropicContent is a content block in the response.
type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// anthropicUsage is the token accounting block in the response.
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Extract sends the extraction prompt for one document and returns the raw
// text of the first text block plus token usage.
func (c *AnthropicClient) Extract(ctx context.Context, document string) (types.RawResponse, error) {
	prompt, err := renderPrompt(document, c.Spec)
	if err != nil {
		return types.RawResponse{}, err
	}

	reqBody := anthropicRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.RawResponse{}, fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, string(body))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return types.RawResponse{}, fmt.Errorf("decoding Anthropic response: %w", err)
	}

	for _, block := range aResp.Content {
		if block.Type != "text" {
			continue
		}
		return types.RawResponse{
			Text: block.Text,
			TokenUsage: map[string]int{
				"input_tokens":  aResp.Usage.InputTokens,
				"output_tokens": aResp.Usage.OutputTokens,
			},
		}, nil
	}

	return types.RawResponse{}, fmt.Errorf("no text content in Anthropic API response")
}
