package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"slide-generator/internal/model"
)

// OllamaClient uses the native ollama chat API.
type OllamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

var _ TextClient = (*OllamaClient)(nil)

// NewOllamaClient creates a client for baseURL (a trailing /v1 is dropped).
func NewOllamaClient(baseURL, modelName string, timeout time.Duration) (*OllamaClient, error) {
	ollamaBaseURL := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL '%s': %w", ollamaBaseURL, err)
	}
	return &OllamaClient{
		client:  api.NewClient(parsedURL, &http.Client{Timeout: timeout}),
		model:   modelName,
		timeout: timeout,
	}, nil
}

func (c *OllamaClient) Backend() string { return "ollama" }

// Complete sends prompt without streaming and returns the final message.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
	}

	requestCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	if resp.Message.Content == "" {
		return "", fmt.Errorf("%w: empty ollama response", model.ErrMalformedReply)
	}
	return resp.Message.Content, nil
}
