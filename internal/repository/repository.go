package repository

import (
	"context"

	"github.com/google/uuid"

	"doc-intel-server/internal/models"
)

// SummaryRepository owns persisted summarization artifacts.
type SummaryRepository interface {
	Save(ctx context.Context, s *models.Summary) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error)
	List(ctx context.Context, limit, offset int) ([]models.Summary, error)
}

// TranslationRepository owns persisted translation artifacts.
type TranslationRepository interface {
	Save(ctx context.Context, t *models.Translation) error
	List(ctx context.Context, limit, offset int) ([]models.Translation, error)
}

// ExtractionRepository owns persisted text-extraction records.
type ExtractionRepository interface {
	Save(ctx context.Context, e *models.TextExtraction) error
}
