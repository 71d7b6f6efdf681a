package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/prompts"
	"doc-intel-server/internal/repository"
	"doc-intel-server/internal/schemas"
)

// BatchTranslationPipeline translates a large ordered list of strings by
// splitting it into fixed-size chunks and running one structured completion
// per chunk. Chunks are processed strictly in input order; a chunk that
// exhausts its retry budget is dropped entirely and processing continues
// with the next chunk, so the result may cover fewer items than the input.
type BatchTranslationPipeline struct {
	generate  llm.GenerateFunc
	repo      repository.TranslationRepository
	logger    *zap.Logger
	chunkSize int
	budget    int
}

// NewBatchTranslationPipeline wires the batch translation flow.
func NewBatchTranslationPipeline(
	client llm.AIClient,
	repo repository.TranslationRepository,
	logger *zap.Logger,
	chunkSize, budget int,
) *BatchTranslationPipeline {
	if chunkSize < 1 {
		chunkSize = 50
	}
	return &BatchTranslationPipeline{
		generate:  llm.Single(client),
		repo:      repo,
		logger:    logger.Named("BatchTranslation"),
		chunkSize: chunkSize,
		budget:    budget,
	}
}

// BatchItem pairs an input string with its translation.
type BatchItem struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// Translate processes items in order. The response array of each chunk must
// match the chunk's length exactly; a mismatch consumes a retry like any
// other validation failure. The returned Partial flag reports whether any
// chunk was dropped.
func (p *BatchTranslationPipeline) Translate(ctx context.Context, sourceLang, targetLang, contextNote string, items []string) ([]BatchItem, bool, error) {
	results := make([]BatchItem, 0, len(items))
	partial := false

	for start := 0; start < len(items); start += p.chunkSize {
		if err := ctx.Err(); err != nil {
			return results, partial, err
		}

		end := start + p.chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		system, user := prompts.BuildBatchTranslate(sourceLang, targetLang, contextNote, chunk)
		translated, err := llm.Complete(ctx, p.generate, p.logger, llm.Request{
			SystemPrompt: system,
			UserPrompt:   user,
		}, p.budget, schemas.TranslationListDecoder(len(chunk)))
		if err != nil {
			if errors.Is(err, models.ErrAttemptsExhausted) {
				p.logger.Warn("Chunk dropped after exhausting retries",
					zap.Int("chunk_start", start),
					zap.Int("chunk_len", len(chunk)))
				partial = true
				continue
			}
			return results, partial, err
		}

		for i, t := range translated {
			results = append(results, BatchItem{Original: chunk[i], Translated: t})
			if p.repo != nil {
				artifact := &models.Translation{
					SourceLanguage: sourceLang,
					TargetLanguage: targetLang,
					Original:       chunk[i],
					Translated:     t,
				}
				if err := p.repo.Save(ctx, artifact); err != nil {
					return results, partial, err
				}
			}
		}
	}

	return results, partial, nil
}
