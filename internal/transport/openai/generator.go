package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yildizm/go-promptfmt"
	"go.uber.org/zap"

	"github.com/crashlens/crashlens/internal/domain"
	"github.com/crashlens/crashlens/internal/metrics"
)

const systemPrompt = `You are an expert SRE and database engineer analyzing crash logs. ` +
	`Ground every statement in the retrieved log excerpts. If the logs do not ` +
	`contain the information needed for a section, write "Not specified in logs" ` +
	`instead of guessing.`

const answerInstructions = `Structure your answer with exactly these sections:

## Observations from Logs
## Root Cause
## Evidence
## Recommended Actions
## Prevention

Quote relevant log lines verbatim in the Evidence section.`

const contextSeparator = "\n\n---\n\n"

// Generator produces crash analysis answers via the chat completion API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// GeneratorConfig holds the chat completion provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.Generator: one blocking chat completion call
// over the question and the retrieved matches, most relevant first.
func (g *Generator) Generate(
	ctx context.Context, question string, matches []domain.RetrievedMatch,
) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := buildAnalysisPrompt(question, matches)

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", parseAPIError("generation", err, domain.ErrGeneration)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGeneration)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// buildAnalysisPrompt assembles the SRE analysis prompt: the question,
// the retrieved log excerpts as a context block, and the fixed section
// layout of the answer.
func buildAnalysisPrompt(question string, matches []domain.RetrievedMatch) *promptfmt.Prompt {
	excerpts := make([]string, 0, len(matches))
	for _, m := range matches {
		excerpts = append(excerpts, fmt.Sprintf("[source: %s]\n%s", m.Source, m.Content))
	}

	return promptfmt.New().
		System(systemPrompt).
		User("Question: %s\n\n%s", question, answerInstructions).
		AddContext("retrieved log excerpts", strings.Join(excerpts, contextSeparator)).
		Build()
}
