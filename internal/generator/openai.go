package generator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"

	"slide-generator/internal/model"
)

// OpenAIClient talks to any OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client *openaigo.Client
	model  string
}

var _ TextClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client; an empty baseURL keeps the library default.
func NewOpenAIClient(baseURL, modelName, apiKey string, timeout time.Duration) *OpenAIClient {
	openaiConfig := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		openaiConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  modelName,
	}
}

func (c *OpenAIClient) Backend() string { return "openai" }

// Complete sends prompt as a single user message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", model.ErrMalformedReply)
	}
	return resp.Choices[0].Message.Content, nil
}
