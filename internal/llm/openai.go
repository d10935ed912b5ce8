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

// Chat-completions endpoints. Groq exposes an OpenAI-compatible API, so both
// providers share OpenAIClient and differ only in URL and default model.
// Package-level vars for test substitution.
var (
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
	groqAPIURL   = "https://api.groq.com/openai/v1/chat/completions"
)

// OpenAIClient calls an OpenAI-compatible chat-completions API.
type OpenAIClient struct {
	APIKey string
	Model  string
	URL    string
	Spec   types.FeatureSpec
	Client *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// chatChoice is one completion candidate.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// chatUsage is the token accounting block in the response.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Extract sends the extraction prompt for one document and returns the raw
// text of the first choice plus token usage.
func (c *OpenAIClient) Extract(ctx context.Context, document string) (types.RawResponse, error) {
	prompt, err := renderPrompt(document, c.Spec)
	if err != nil {
		return types.RawResponse{}, err
	}

	reqBody := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return types.RawResponse{}, fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.RawResponse{}, fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return types.RawResponse{}, fmt.Errorf("decoding chat response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return types.RawResponse{}, fmt.Errorf("chat API returned no choices")
	}

	return types.RawResponse{
		Text: cResp.Choices[0].Message.Content,
		TokenUsage: map[string]int{
			"prompt_tokens":     cResp.Usage.PromptTokens,
			"completion_tokens": cResp.Usage.CompletionTokens,
			"total_tokens":      cResp.Usage.TotalTokens,
		},
	}, nil
}
