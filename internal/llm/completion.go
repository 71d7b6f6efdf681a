package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"doc-intel-server/internal/models"
)

// Request carries one structured-completion prompt pair.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Params       GenerationParams
}

// Decoder validates and decodes raw model output into T. It must fail for
// anything that is not valid JSON matching the expected shape, including an
// empty JSON object. Extra fields beyond the shape are tolerated.
type Decoder[T any] func(data []byte) (T, error)

// GenerateFunc produces one raw completion. It decouples the retry loop from
// the concrete client so the loop is reusable across all generation
// operations and trivially stubbed in tests.
type GenerateFunc func(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error)

// Single adapts an AIClient's non-streaming completion to a GenerateFunc.
func Single(c AIClient) GenerateFunc {
	return c.GenerateText
}

// Streaming adapts an AIClient's streaming completion to a GenerateFunc by
// collecting the ordered chunks into the full response text.
func Streaming(c AIClient) GenerateFunc {
	return func(ctx context.Context, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error) {
		var sb strings.Builder
		usage, err := c.GenerateTextStream(ctx, systemPrompt, userInput, params, func(chunk string) error {
			sb.WriteString(chunk)
			return nil
		})
		if err != nil {
			return "", usage, err
		}
		return sb.String(), usage, nil
	}
}

// Complete runs the bounded retry loop around a non-deterministic generator.
//
// Each attempt generates once, cleans the raw text and runs the decoder.
// The first decoded success is returned immediately; generator errors and
// validation failures both consume one attempt from the budget. Retries are
// immediate, with no backoff: failures are attributed to sampling variance,
// not transient load. When the budget runs out the returned error wraps
// models.ErrAttemptsExhausted so callers can map it to a domain 4xx.
func Complete[T any](ctx context.Context, gen GenerateFunc, log *zap.Logger, req Request, budget int, decode Decoder[T]) (T, error) {
	var zero T
	if budget < 1 {
		budget = 1
	}

	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		raw, _, err := gen(ctx, req.SystemPrompt, req.UserPrompt, req.Params)
		if err != nil {
			lastErr = err
			log.Warn("Generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("budget", budget),
				zap.Error(err))
			continue
		}

		value, err := decode([]byte(CleanResponse(raw)))
		if err != nil {
			lastErr = err
			log.Warn("Generated response failed validation",
				zap.Int("attempt", attempt),
				zap.Int("budget", budget),
				zap.Int("raw_length", len(raw)),
				zap.Error(err))
			continue
		}

		log.Debug("Structured completion validated", zap.Int("attempt", attempt))
		return value, nil
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", models.ErrAttemptsExhausted, budget, lastErr)
}

// CleanResponse strips the markdown code fences models like to wrap JSON in
// and trims surrounding whitespace.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
