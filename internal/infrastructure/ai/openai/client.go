// Package openai provides an OpenAI-compatible chat completions gateway
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitpantry/coach/internal/ports/outbound"
	"go.uber.org/zap"
)

// Config holds the OpenAI client settings
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Client implements outbound.Gateway on /chat/completions
type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	logger.Info("OpenAI client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
	)

	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("openai-client"),
	}
}

var _ outbound.Gateway = (*Client)(nil)

// OpenAI API structures
type imageURL struct {
	URL string `json:"url"`
}

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type contentPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	ImageURL   *imageURL   `json:"image_url,omitempty"`
	InputAudio *inputAudio `json:"input_audio,omitempty"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Name returns the provider name
func (c *Client) Name() string {
	return "openai"
}

// Generate sends one user message; images travel as data URIs and audio as input_audio parts.
func (c *Client) Generate(ctx context.Context, prompt string, attachments ...outbound.Attachment) (string, error) {
	parts := []contentPart{{Type: "text", Text: prompt}}
	for _, a := range attachments {
		p, err := toContentPart(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}

	reqBody := chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    []message{{Role: "user", Content: parts}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	c.logger.Debug("Chat completion successful",
		zap.String("finish_reason", chatResp.Choices[0].FinishReason),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)
	return chatResp.Choices[0].Message.Content, nil
}

func toContentPart(a outbound.Attachment) (contentPart, error) {
	encoded := base64.StdEncoding.EncodeToString(a.Data)
	switch {
	case strings.HasPrefix(a.MIMEType, "image/"):
		return contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: fmt.Sprintf("data:%s;base64,%s", a.MIMEType, encoded)},
		}, nil
	case a.MIMEType == "audio/wav" || a.MIMEType == "audio/x-wav" || a.MIMEType == "audio/wave":
		return contentPart{Type: "input_audio", InputAudio: &inputAudio{Data: encoded, Format: "wav"}}, nil
	case a.MIMEType == "audio/mpeg" || a.MIMEType == "audio/mp3":
		return contentPart{Type: "input_audio", InputAudio: &inputAudio{Data: encoded, Format: "mp3"}}, nil
	default:
		return contentPart{}, fmt.Errorf("unsupported attachment type %q", a.MIMEType)
	}
}

// HealthCheck lists the models visible to the key
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai health check failed with status %d", resp.StatusCode)
	}
	return nil
}
