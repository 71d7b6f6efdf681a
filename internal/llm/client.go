package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	openaigo "github.com/sashabaranov/go-openai"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"doc-intel-server/internal/config"
	"doc-intel-server/internal/models"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintel_ai_requests_total",
			Help: "Total number of requests to the AI backend.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docintel_ai_request_duration_seconds",
			Help:    "Histogram of AI backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docintel_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docintel_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
)

// GenerationParams carries optional sampling parameters. Pointers
// distinguish 0/0.0 from absent.
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// UsageInfo reports token usage for one generation call. Counts may be
// estimated when the backend does not return usage data.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AIClient abstracts a single LLM inference backend connection. It performs
// no retries; structured-completion retry policy lives in Complete.
type AIClient interface {
	// Prepare ensures the named model is available locally. A failure is
	// logged but never surfaced to the caller; inference against a missing
	// model fails later on its own.
	Prepare(ctx context.Context, model string)
	// GenerateText performs a single non-streaming completion.
	GenerateText(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error)
	// GenerateTextStream yields text chunks in order through chunkHandler.
	GenerateTextStream(ctx context.Context, systemPrompt, userInput string, params GenerationParams, chunkHandler func(string) error) (UsageInfo, error)
}

// NewAIClient builds an AIClient implementation according to the configuration.
func NewAIClient(cfg *config.Config, log *zap.Logger) (AIClient, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case "openai":
		openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
		openaiConfig.BaseURL = cfg.AIBaseURL
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
		client := openaigo.NewClientWithConfig(openaiConfig)
		log.Info("AI client created",
			zap.String("type", "openai"),
			zap.String("base_url", cfg.AIBaseURL),
			zap.String("model", cfg.AIModel),
			zap.Duration("timeout", cfg.AITimeout))
		return &openAIClient{client: client, model: cfg.AIModel, logger: log.Named("OpenAIClient")}, nil
	case "ollama":
		return newOllamaClient(cfg, log)
	default:
		return nil, fmt.Errorf("unknown AI client type: '%s'", cfg.AIClientType)
	}
}

// --- OpenAI-compatible client ---

type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// Prepare is a no-op for OpenAI-compatible backends; models are remote.
func (c *openAIClient) Prepare(_ context.Context, model string) {
	c.logger.Debug("Prepare skipped for remote backend", zap.String("model", model))
}

func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usage := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", usage, fmt.Errorf("%w: system prompt is empty", models.ErrGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	startTime := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
		TopP:        float32Val(params.TopP),
	})
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("AI API error", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", usage, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("AI API returned empty response", zap.Duration("duration", duration))
		aiRequestsTotal.WithLabelValues(c.model, "error_empty_response").Inc()
		return "", usage, fmt.Errorf("%w: empty response", models.ErrGenerationFailed)
	}

	aiRequestsTotal.WithLabelValues(c.model, "success").Inc()
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	c.logger.Debug("AI response received",
		zap.Duration("duration", duration),
		zap.Int("length", len(generatedText)))

	if resp.Usage.TotalTokens > 0 {
		usage.PromptTokens = resp.Usage.PromptTokens
		usage.CompletionTokens = resp.Usage.CompletionTokens
		usage.TotalTokens = resp.Usage.TotalTokens
		aiPromptTokens.WithLabelValues(c.model).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.WithLabelValues(c.model).Observe(float64(usage.CompletionTokens))
	}

	return generatedText, usage, nil
}

func (c *openAIClient) GenerateTextStream(ctx context.Context, systemPrompt, userInput string, params GenerationParams, chunkHandler func(string) error) (UsageInfo, error) {
	usage := UsageInfo{}
	if strings.TrimSpace(systemPrompt) == "" {
		return usage, fmt.Errorf("%w: system prompt is empty", models.ErrGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Stream:      true,
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
		TopP:        float32Val(params.TopP),
	})
	if err != nil {
		aiRequestsTotal.WithLabelValues(c.model, "error_stream_init").Inc()
		return usage, fmt.Errorf("%w: stream init: %v", models.ErrGenerationFailed, err)
	}
	defer stream.Close()

	startTime := time.Now()
	completionTokensCount := 0
	var finalUsage openaigo.Usage

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			aiRequestsTotal.WithLabelValues(c.model, "error_stream_read").Inc()
			return usage, fmt.Errorf("%w: stream read: %v", models.ErrGenerationFailed, err)
		}

		// Usage arrives in the final chunk for some backends.
		if response.Usage != nil && response.Usage.TotalTokens > 0 {
			finalUsage = *response.Usage
		}

		if len(response.Choices) > 0 {
			chunk := response.Choices[0].Delta.Content
			if tke, err := tiktoken.EncodingForModel(c.model); err == nil {
				completionTokensCount += len(tke.Encode(chunk, nil, nil))
			}
			if chunkHandler != nil && chunk != "" {
				if err := chunkHandler(chunk); err != nil {
					return usage, fmt.Errorf("%w: chunk handler: %v", models.ErrGenerationFailed, err)
				}
			}
		}
	}

	duration := time.Since(startTime)
	aiRequestsTotal.WithLabelValues(c.model, "success_stream").Inc()
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if finalUsage.TotalTokens > 0 {
		usage.PromptTokens = finalUsage.PromptTokens
		usage.CompletionTokens = finalUsage.CompletionTokens
		usage.TotalTokens = finalUsage.TotalTokens
	} else if tke, err := tiktoken.EncodingForModel(c.model); err == nil {
		// Estimate when the final usage block never arrived.
		usage.PromptTokens = len(tke.Encode(systemPrompt, nil, nil)) + len(tke.Encode(userInput, nil, nil))
		usage.CompletionTokens = completionTokensCount
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	if usage.TotalTokens > 0 {
		aiPromptTokens.WithLabelValues(c.model).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.WithLabelValues(c.model).Observe(float64(usage.CompletionTokens))
	}

	return usage, nil
}

// --- Ollama client ---

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newOllamaClient(cfg *config.Config, log *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{Timeout: cfg.AITimeout}

	// api.NewClient wants the URL without the /v1 suffix.
	ollamaBaseURL := strings.TrimSuffix(cfg.AIBaseURL, "/v1")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", ollamaBaseURL, err)
	}

	client := api.NewClient(parsedURL, httpClient)
	log.Info("AI client created",
		zap.String("type", "ollama"),
		zap.String("base_url", ollamaBaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout))

	return &ollamaClient{
		client:  client,
		model:   cfg.AIModel,
		timeout: cfg.AITimeout,
		logger:  log.Named("OllamaClient"),
	}, nil
}

// Prepare pulls the model, streaming progress into the log. Pull failure is
// not fatal here; a missing model surfaces as a generation error later.
func (c *ollamaClient) Prepare(ctx context.Context, model string) {
	lastStatus := ""
	err := c.client.Pull(ctx, &api.PullRequest{Model: model}, func(resp api.ProgressResponse) error {
		if resp.Status != lastStatus {
			lastStatus = resp.Status
			fields := []zap.Field{zap.String("model", model), zap.String("status", resp.Status)}
			if resp.Total > 0 {
				fields = append(fields,
					zap.Int64("completed", resp.Completed),
					zap.Int64("total", resp.Total))
			}
			c.logger.Info("Model pull progress", fields...)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("Model pull failed; inference will fail if the model is missing",
			zap.String("model", model), zap.Error(err))
		return
	}
	c.logger.Info("Model is available", zap.String("model", model))
}

func (c *ollamaClient) GenerateText(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usage := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", usage, fmt.Errorf("%w: system prompt is empty", models.ErrGenerationFailed)
	}

	messages := []api.Message{{Role: "system", Content: systemPrompt}}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(false),
		Options:  ollamaOptions(params),
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Ollama request timed out",
				zap.Duration("timeout", c.timeout), zap.Duration("duration", duration))
		} else {
			c.logger.Warn("Ollama API error", zap.Duration("duration", duration), zap.Error(err))
		}
		aiRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", usage, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	if resp.Message.Content == "" {
		c.logger.Warn("Ollama API returned empty response", zap.Duration("duration", duration))
		aiRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", usage, fmt.Errorf("%w: empty response", models.ErrGenerationFailed)
	}

	aiRequestsTotal.WithLabelValues(c.model, "success").Inc()
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	generatedText := resp.Message.Content
	c.logger.Debug("Ollama response received",
		zap.Duration("duration", duration),
		zap.Int("length", len(generatedText)))

	usage.PromptTokens = resp.PromptEvalCount
	usage.CompletionTokens = resp.EvalCount
	usage.TotalTokens = resp.PromptEvalCount + resp.EvalCount
	if usage.TotalTokens > 0 {
		aiPromptTokens.WithLabelValues(c.model).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.WithLabelValues(c.model).Observe(float64(usage.CompletionTokens))
	}

	return generatedText, usage, nil
}

func (c *ollamaClient) GenerateTextStream(ctx context.Context, systemPrompt, userInput string, params GenerationParams, chunkHandler func(string) error) (UsageInfo, error) {
	usage := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		return usage, fmt.Errorf("%w: system prompt is empty", models.ErrGenerationFailed)
	}

	messages := []api.Message{{Role: "system", Content: systemPrompt}}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(true),
		Options:  ollamaOptions(params),
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	var promptTokens, completionTokens int

	err := c.client.Chat(requestCtx, req, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" && chunkHandler != nil {
			if err := chunkHandler(resp.Message.Content); err != nil {
				return fmt.Errorf("chunk handler: %w", err)
			}
		}
		if resp.Done {
			promptTokens = resp.PromptEvalCount
			completionTokens = resp.EvalCount
			if resp.DoneReason != "" && resp.DoneReason != "stop" {
				c.logger.Warn("Ollama stream finished abnormally", zap.String("reason", resp.DoneReason))
			}
		}
		return nil
	})
	duration := time.Since(startTime)

	if err != nil {
		aiRequestsTotal.WithLabelValues(c.model, "error_stream").Inc()
		return usage, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	aiRequestsTotal.WithLabelValues(c.model, "success_stream").Inc()
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	usage.PromptTokens = promptTokens
	usage.CompletionTokens = completionTokens
	usage.TotalTokens = promptTokens + completionTokens
	if usage.TotalTokens > 0 {
		aiPromptTokens.WithLabelValues(c.model).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.WithLabelValues(c.model).Observe(float64(usage.CompletionTokens))
	}

	return usage, nil
}

func ollamaOptions(params GenerationParams) map[string]interface{} {
	opts := map[string]interface{}{}
	if params.Temperature != nil {
		opts["temperature"] = *params.Temperature
	}
	if params.TopP != nil {
		opts["top_p"] = *params.TopP
	}
	if params.MaxTokens != nil {
		opts["num_predict"] = *params.MaxTokens
	}
	return opts
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 1.0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
