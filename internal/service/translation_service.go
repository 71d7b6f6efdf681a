package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/prompts"
	"doc-intel-server/internal/repository"
	"doc-intel-server/internal/schemas"
)

// TranslationService drives the translate, regenerate and verify operations.
// Alternatives are generated strictly sequentially: each alternative's prompt
// lists every previously produced translation, which the anti-repetition
// instruction depends on.
type TranslationService struct {
	generate       llm.GenerateFunc // non-streaming, used by translate/verify
	generateStream llm.GenerateFunc // streaming variant, used by regenerate
	repo           repository.TranslationRepository
	logger         *zap.Logger

	translateBudget int
	verifyBudget    int
}

// NewTranslationService wires the translation flows around one AI client.
func NewTranslationService(
	client llm.AIClient,
	repo repository.TranslationRepository,
	logger *zap.Logger,
	translateBudget, verifyBudget int,
) *TranslationService {
	return &TranslationService{
		generate:       llm.Single(client),
		generateStream: llm.Streaming(client),
		repo:           repo,
		logger:         logger.Named("TranslationService"),
		translateBudget: translateBudget,
		verifyBudget:    verifyBudget,
	}
}

// Translate produces up to req.AlternativesCount translation candidates. An
// alternative whose retry budget is exhausted is abandoned and the loop
// proceeds to the next one, so the result may be shorter than requested;
// callers report that as partial success. Zero produced alternatives returns
// models.ErrAttemptsExhausted.
func (s *TranslationService) Translate(ctx context.Context, req models.TranslateRequest) ([]models.TranslationResult, error) {
	count := req.AlternativesCount
	if count < 1 {
		count = 1
	}

	results := make([]models.TranslationResult, 0, count)
	previous := make([]string, 0, count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var system, user string
		if i == 0 {
			system, user = prompts.BuildTranslate(req)
		} else {
			system, user = prompts.BuildAlternative(req, previous, i-1)
		}

		result, err := llm.Complete(ctx, s.generate, s.logger, llm.Request{
			SystemPrompt: system,
			UserPrompt:   user,
		}, s.translateBudget, schemas.ParseTranslation)
		if err != nil {
			if errors.Is(err, models.ErrAttemptsExhausted) {
				s.logger.Warn("Alternative abandoned after exhausting retries",
					zap.Int("alternative", i),
					zap.Int("budget", s.translateBudget))
				continue
			}
			return results, err
		}

		if err := s.persist(ctx, req, result.Translation); err != nil {
			return results, err
		}
		results = append(results, result)
		previous = append(previous, result.Translation)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no alternatives produced", models.ErrAttemptsExhausted)
	}
	return results, nil
}

// Verify scores a candidate translation against the original.
func (s *TranslationService) Verify(ctx context.Context, req models.TranslateRequest) (models.Verification, error) {
	system, user := prompts.BuildVerify(req)
	return llm.Complete(ctx, s.generate, s.logger, llm.Request{
		SystemPrompt: system,
		UserPrompt:   user,
	}, s.verifyBudget, schemas.ParseVerification)
}

// Regenerate lazily produces alternatives to an existing translation. The
// returned stream is finite and non-restartable; each pull runs one
// retry-loop cycle over the streaming generator, and abandoning consumption
// triggers no further generator calls.
func (s *TranslationService) Regenerate(ctx context.Context, req models.TranslateRequest) *TranslationStream {
	count := req.AlternativesCount
	if count < 1 {
		count = 1
	}
	previous := make([]string, 0, count+1)
	if req.Translation != "" {
		previous = append(previous, req.Translation)
	}
	return &TranslationStream{
		svc:       s,
		req:       req,
		previous:  previous,
		remaining: count,
	}
}

// TranslationStream is a lazy, finite sequence of regenerated translations.
type TranslationStream struct {
	svc       *TranslationService
	req       models.TranslateRequest
	previous  []string
	index     int
	remaining int
}

// Next produces the next alternative, or (nil, nil) when the sequence is
// finished. An alternative that exhausts its retry budget is skipped: Next
// advances to the following one, so the total yielded may be fewer than
// requested.
func (st *TranslationStream) Next(ctx context.Context) (*models.TranslationResult, error) {
	for st.remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		system, user := prompts.BuildAlternative(st.req, st.previous, st.index)
		st.index++
		st.remaining--

		result, err := llm.Complete(ctx, st.svc.generateStream, st.svc.logger, llm.Request{
			SystemPrompt: system,
			UserPrompt:   user,
		}, st.svc.translateBudget, schemas.ParseTranslation)
		if err != nil {
			if errors.Is(err, models.ErrAttemptsExhausted) {
				st.svc.logger.Warn("Regenerated alternative abandoned after exhausting retries",
					zap.Int("alternative", st.index-1))
				continue
			}
			return nil, err
		}

		if err := st.svc.persist(ctx, st.req, result.Translation); err != nil {
			return nil, err
		}
		st.previous = append(st.previous, result.Translation)
		return &result, nil
	}
	return nil, nil
}

func (s *TranslationService) persist(ctx context.Context, req models.TranslateRequest, translated string) error {
	if s.repo == nil {
		return nil
	}
	artifact := &models.Translation{
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Original:       req.Original,
		Translated:     translated,
	}
	if err := s.repo.Save(ctx, artifact); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInternalServer, err)
	}
	return nil
}
