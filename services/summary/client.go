package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Completer is the opaque summarization collaborator: prompt in,
// response text out. What happens inside is out of scope here.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPCompleter talks to an OpenAI-compatible chat completions
// endpoint.
type HTTPCompleter struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewHTTPCompleter creates a completer for the given endpoint root.
func NewHTTPCompleter(baseURL, apiKey, model string, timeout time.Duration) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarization service returned %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode summarization response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summarization service returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
