// Package ai proxies project insight generation to an OpenAI-compatible
// chat completions API (DeepSeek by default).
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrNotConfigured means no API key is set; the insight endpoint is
// decorative, so callers surface a fallback instead of failing hard.
var ErrNotConfigured = errors.New("ai service not configured")

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"

	systemPrompt = "You are a seasoned developer and critic with an eye for what makes a project interesting."
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func New(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewFromEnv reads SHOWCASE_AI_API_KEY, SHOWCASE_AI_BASE_URL and
// SHOWCASE_AI_MODEL. An empty key yields a client that always returns
// ErrNotConfigured.
func NewFromEnv() *Client {
	return New(
		os.Getenv("SHOWCASE_AI_BASE_URL"),
		os.Getenv("SHOWCASE_AI_API_KEY"),
		os.Getenv("SHOWCASE_AI_MODEL"),
	)
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ProjectInsight asks the model for a short one-liner highlighting what makes
// the project stand out.
func (c *Client) ProjectInsight(ctx context.Context, title, backgroundStory, shortDescription string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Write a short, engaging one-line review of this project, highlighting what is innovative about it.\n\nName: %s\nBackground: %s\nWhat it does: %s\n\nKeep it under 100 words, professional but warm.",
		title, backgroundStory, shortDescription)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ai upstream http %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("ai upstream returned no content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
