package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"doc-intel-server/internal/eli"
	"doc-intel-server/internal/llm"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/prompts"
	"doc-intel-server/internal/repository"
	"doc-intel-server/internal/schemas"
)

// TextExtractor pulls plain text out of an uploaded document. It returns
// models.ErrExtractionFailed (wrapped) when the document yields no text.
type TextExtractor func(data []byte) (text string, pageCount int, err error)

// SummaryService drives the summarize operation for PDF uploads and ELI
// legal acts.
type SummaryService struct {
	generate    llm.GenerateFunc
	extract     TextExtractor
	acts        eli.ActSource
	summaryRepo repository.SummaryRepository
	extractRepo repository.ExtractionRepository
	logger      *zap.Logger
	budget      int
}

// NewSummaryService wires the summarize flows.
func NewSummaryService(
	client llm.AIClient,
	extract TextExtractor,
	acts eli.ActSource,
	summaryRepo repository.SummaryRepository,
	extractRepo repository.ExtractionRepository,
	logger *zap.Logger,
	budget int,
) *SummaryService {
	return &SummaryService{
		generate:    llm.Single(client),
		extract:     extract,
		acts:        acts,
		summaryRepo: summaryRepo,
		extractRepo: extractRepo,
		logger:      logger.Named("SummaryService"),
		budget:      budget,
	}
}

// SummarizeText runs the summarize completion over raw text and persists the
// artifact on validated success.
func (s *SummaryService) SummarizeText(ctx context.Context, source, title, text string) (*models.Summary, error) {
	system, user := prompts.BuildSummarize(text)
	result, err := llm.Complete(ctx, s.generate, s.logger, llm.Request{
		SystemPrompt: system,
		UserPrompt:   user,
	}, s.budget, schemas.ParseSummary)
	if err != nil {
		return nil, err
	}

	artifact := &models.Summary{
		Source:    source,
		Title:     title,
		Summary:   result.Summary,
		Details:   result.Details,
		Takeaways: result.Takeaways,
	}
	if s.summaryRepo != nil {
		if err := s.summaryRepo.Save(ctx, artifact); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
		}
	}
	return artifact, nil
}

// SummarizePDF extracts text from an uploaded PDF, records the extraction
// and summarizes the text. Extraction failure maps to a client error.
func (s *SummaryService) SummarizePDF(ctx context.Context, filename string, data []byte) (*models.Summary, error) {
	text, pages, err := s.extract(data)
	if err != nil {
		s.logger.Warn("PDF text extraction failed", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrExtractionFailed, err)
	}

	if s.extractRepo != nil {
		extraction := &models.TextExtraction{Filename: filename, Text: text, PageCount: pages}
		if err := s.extractRepo.Save(ctx, extraction); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInternalServer, err)
		}
	}

	return s.SummarizeText(ctx, "pdf", filename, text)
}

// SummarizeAct fetches a legal act's text from the ELI API and summarizes
// it. A missing act maps to models.ErrActNotFound.
func (s *SummaryService) SummarizeAct(ctx context.Context, publisher string, year int, position int) (*models.Summary, error) {
	act, err := s.acts.GetActText(ctx, publisher, year, position)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s %d/%d", publisher, year, position)
	if act.Title != "" {
		title = act.Title
	}
	return s.SummarizeText(ctx, "eli", title, act.Text)
}
