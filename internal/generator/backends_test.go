package generator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slide-generator/internal/config"
	"slide-generator/internal/model"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"[]"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	c := NewOpenAIClient(server.URL, "gpt-test", "key", time.Second)
	text, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
	assert.Equal(t, "prompt", gotPrompt)

	t.Run("Error status", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"error":{"message":"down"}}`)
		}))
		defer failing.Close()

		_, err := NewOpenAIClient(failing.URL, "gpt-test", "key", time.Second).Complete(context.Background(), "p")
		assert.ErrorIs(t, err, model.ErrGenerationFailed)
	})
}

func TestOllamaClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama","message":{"role":"assistant","content":"[1]"},"done":true}`+"\n")
	}))
	defer server.Close()

	c, err := NewOllamaClient(server.URL+"/v1", "llama", time.Second)
	require.NoError(t, err)
	text, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "[1]", text)
}

func TestNewTextClient(t *testing.T) {
	base := config.Config{AIBaseURL: "http://localhost:1", AIModel: "m", AIAPIKey: "k", AITimeout: time.Second}

	for typ, backend := range map[string]string{"": "gemini", "gemini": "gemini", "OpenAI": "openai", "ollama": "ollama"} {
		cfg := base
		cfg.AIClientType = typ
		client, err := NewTextClient(&cfg, zap.NewNop())
		require.NoError(t, err, typ)
		assert.Equal(t, backend, client.Backend())
	}

	cfg := base
	cfg.AIClientType = "deepseek"
	_, err := NewTextClient(&cfg, zap.NewNop())
	assert.Error(t, err)
}
