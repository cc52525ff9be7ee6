package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"slide-generator/internal/config"
	"slide-generator/internal/model"
)

// ContentGenerator produces slide records for a topic.
type ContentGenerator interface {
	// Generate returns at most n slide records for topic.
	Generate(ctx context.Context, topic string, n int) ([]model.SlideRecord, error)
}

// TextClient - один вызов текстовой модели: промпт на входе, сырой текст на выходе.
type TextClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Backend names the implementation for logs and metrics.
	Backend() string
}

// Generator turns a TextClient reply into slide records.
type Generator struct {
	client TextClient
	logger *zap.Logger
}

var _ ContentGenerator = (*Generator)(nil)

// New wraps client into a ContentGenerator.
func New(client TextClient, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger.Named("Generator")}
}

// Generate builds the prompt, calls the backend once and parses its reply.
// No retries are made.
func (g *Generator) Generate(ctx context.Context, topic string, n int) ([]model.SlideRecord, error) {
	log := g.logger.With(zap.String("backend", g.client.Backend()), zap.Int("slides", n))

	start := time.Now()
	text, err := g.client.Complete(ctx, BuildPrompt(topic, n))
	aiRequestDuration.WithLabelValues(g.client.Backend()).Observe(time.Since(start).Seconds())
	if err != nil {
		aiRequestsTotal.WithLabelValues(g.client.Backend(), "error").Inc()
		log.Error("Generation request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, err
	}

	records, err := ParseSlides(text)
	if err != nil {
		aiRequestsTotal.WithLabelValues(g.client.Backend(), "malformed").Inc()
		log.Warn("Generator reply could not be parsed", zap.Int("replyLength", len(text)), zap.Error(err))
		return nil, err
	}
	aiRequestsTotal.WithLabelValues(g.client.Backend(), "success").Inc()

	if len(records) > n {
		log.Warn("Backend returned more slides than requested, truncating", zap.Int("received", len(records)))
		records = records[:n]
	} else if len(records) < n {
		log.Warn("Backend returned fewer slides than requested", zap.Int("received", len(records)))
	}
	log.Info("Slides generated", zap.Int("received", len(records)), zap.Duration("duration", time.Since(start)))
	return records, nil
}

// NewTextClient создает клиента по AI_CLIENT_TYPE.
func NewTextClient(cfg *config.Config, logger *zap.Logger) (TextClient, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case "", "gemini":
		logger.Info("Using AI client implementation", zap.String("type", "gemini"), zap.String("model", cfg.AIModel))
		return NewGeminiClient(cfg.AIBaseURL, cfg.AIModel, cfg.AIAPIKey, cfg.AITimeout), nil
	case "openai":
		logger.Info("Using AI client implementation", zap.String("type", "openai"), zap.String("model", cfg.AIModel))
		return NewOpenAIClient(cfg.AIBaseURL, cfg.AIModel, cfg.AIAPIKey, cfg.AITimeout), nil
	case "ollama":
		logger.Info("Using AI client implementation", zap.String("type", "ollama"), zap.String("model", cfg.AIModel))
		return NewOllamaClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
	default:
		return nil, fmt.Errorf("unknown AI_CLIENT_TYPE '%s'", cfg.AIClientType)
	}
}

// NewFromConfig is NewTextClient followed by New.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	client, err := NewTextClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(client, logger), nil
}
