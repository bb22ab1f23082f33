package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
	"github.com/podiumlabs/podium/internal/metrics"
)

// Client invokes the inference provider over its OpenAI-compatible API.
// One client serves both endpoints: question embedding and answer generation.
// Outbound calls carry no explicit timeout; a hanging provider call blocks
// the request for its whole lifetime (known limitation).
type Client struct {
	api             *openai.Client
	embeddingModel  openai.EmbeddingModel
	chatModel       string
	maxAnswerTokens int
	logger          *zap.Logger
}

// Config holds the inference provider settings.
type Config struct {
	APIKey          string
	BaseURL         string
	EmbeddingModel  string
	ChatModel       string
	MaxAnswerTokens int
	Logger          *zap.Logger
}

// NewClient creates an inference provider client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:             openai.NewClientWithConfig(clientCfg),
		embeddingModel:  openai.EmbeddingModel(cfg.EmbeddingModel),
		chatModel:       cfg.ChatModel,
		maxAnswerTokens: cfg.MaxAnswerTokens,
		logger:          cfg.Logger,
	}
}

// EmbedQuestion vectorizes a question. Returns the raw embedding vector; the
// caller forwards it opaquely without interpreting dimensionality or values.
func (c *Client) EmbedQuestion(ctx context.Context, question string) ([]float32, error) {
	model := string(c.embeddingModel)
	start := time.Now()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{question},
		Model: c.embeddingModel,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.InferenceRequestsTotal.WithLabelValues("embedding", model, "error").Inc()
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		metrics.InferenceRequestsTotal.WithLabelValues("embedding", model, "error").Inc()
		return nil, fmt.Errorf("empty embedding data: %w", domain.ErrProviderResponse)
	}

	metrics.InferenceRequestsTotal.WithLabelValues("embedding", model, "success").Inc()
	metrics.InferenceRequestDuration.WithLabelValues("embedding", model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.InferenceTokensTotal.WithLabelValues("embedding", model, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Data[0].Embedding, nil
}

// Complete generates an answer for a composed prompt. The prompt is sent as a
// single user message; exactly one completion call is made per invocation, no
// retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxAnswerTokens,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.InferenceRequestsTotal.WithLabelValues("chat", c.chatModel, "error").Inc()
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.InferenceRequestsTotal.WithLabelValues("chat", c.chatModel, "error").Inc()
		return "", fmt.Errorf("empty chat choices: %w", domain.ErrProviderResponse)
	}

	metrics.InferenceRequestsTotal.WithLabelValues("chat", c.chatModel, "success").Inc()
	metrics.InferenceRequestDuration.WithLabelValues("chat", c.chatModel).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.InferenceTokensTotal.WithLabelValues("chat", c.chatModel, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.InferenceTokensTotal.WithLabelValues("chat", c.chatModel, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
