// Package gemini implements the analyzer oracle on top of the Google GenAI
// SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash-lite-preview-06-17"

// apiKeyEnv is the environment variable holding the required credential.
const apiKeyEnv = "GEMINI_API_KEY"

// temperature keeps scoring replies near-deterministic.
const temperature float32 = 0.2

// Client wraps the GenAI SDK behind the narrow Complete interface the
// analyzer consumes.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini-backed oracle. GEMINI_API_KEY must be set in the
// environment; a missing key is a configuration error raised here, before
// any evaluation can run.
func NewClient(ctx context.Context, model string) (*Client, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s not set in environment", apiKeyEnv)
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Model reports the model in use.
func (c *Client) Model() string { return c.model }

// Complete sends one generation request and returns the concatenated text of
// the first candidate. Exactly one attempt per call, no retries. The request
// asks for a JSON response body, which narrows but does not eliminate the
// caller's parsing work.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(temperature),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("model response has no text parts")
	}
	return sb.String(), nil
}

// Close releases the underlying client. The GenAI SDK client is HTTP-based
// and exposes no Close of its own, so there is nothing to release.
func (c *Client) Close() error {
	return nil
}
