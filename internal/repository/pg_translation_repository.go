package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"doc-intel-server/internal/models"
)

const (
	insertTranslationQuery = `
		INSERT INTO translations (id, source_language, target_language, original, translated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	listTranslationsQuery = `
		SELECT id, source_language, target_language, original, translated, created_at, updated_at
		FROM translations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	insertExtractionQuery = `
		INSERT INTO text_extractions (id, filename, text, page_count)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
)

type PgTranslationRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTranslationRepository creates a PostgreSQL-backed TranslationRepository.
func NewPgTranslationRepository(pool *pgxpool.Pool, logger *zap.Logger) TranslationRepository {
	return &PgTranslationRepository{pool: pool, logger: logger.Named("PgTranslationRepo")}
}

// Save inserts the translation and fills in the database-assigned timestamps.
func (r *PgTranslationRepository) Save(ctx context.Context, t *models.Translation) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, insertTranslationQuery,
		t.ID, t.SourceLanguage, t.TargetLanguage, t.Original, t.Translated,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save translation", zap.String("id", t.ID.String()), zap.Error(err))
		return fmt.Errorf("error saving translation: %w", err)
	}
	return nil
}

// List returns translations ordered newest first.
func (r *PgTranslationRepository) List(ctx context.Context, limit, offset int) ([]models.Translation, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Translation
	if err := pgxscan.Select(ctx, r.pool, &out, listTranslationsQuery, limit, offset); err != nil {
		r.logger.Error("Failed to list translations", zap.Error(err))
		return nil, fmt.Errorf("error listing translations: %w", err)
	}
	return out, nil
}

type PgExtractionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgExtractionRepository creates a PostgreSQL-backed ExtractionRepository.
func NewPgExtractionRepository(pool *pgxpool.Pool, logger *zap.Logger) ExtractionRepository {
	return &PgExtractionRepository{pool: pool, logger: logger.Named("PgExtractionRepo")}
}

// Save inserts the extraction record.
func (r *PgExtractionRepository) Save(ctx context.Context, e *models.TextExtraction) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, insertExtractionQuery,
		e.ID, e.Filename, e.Text, e.PageCount,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save text extraction", zap.String("id", e.ID.String()), zap.Error(err))
		return fmt.Errorf("error saving text extraction: %w", err)
	}
	return nil
}
