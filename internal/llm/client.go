package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/startupstack/startupstack/internal/config"
)

// Client calls an OpenAI-compatible chat-completions endpoint. It performs
// exactly one request per Generate call; retry policy belongs to the caller.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// GenParams are the per-operation tuning values for one generation call.
type GenParams struct {
	Temperature float64
	MaxTokens   int
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient creates a generation client from config.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate sends one system/user prompt pair to the backend and returns the
// generated text. All failures carry a closed ErrorKind.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string, params GenParams) (string, error) {
	if c.apiKey == "" {
		return "", newError(KindConfiguration, "API key not available", nil)
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", newError(KindBackendFault,
			fmt.Sprintf("AI service returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", newError(KindMalformedResponse, "decoding AI service response", err)
	}
	if response.Error != nil {
		return "", newError(KindBackendFault, response.Error.Message, nil)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", newError(KindMalformedResponse, "no response from AI service", nil)
	}

	return response.Choices[0].Message.Content, nil
}
