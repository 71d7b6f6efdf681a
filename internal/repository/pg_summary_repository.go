package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"doc-intel-server/internal/models"
)

const (
	insertSummaryQuery = `
		INSERT INTO summaries (id, source, title, summary, details, takeaways)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	getSummaryByIDQuery = `
		SELECT id, source, title, summary, details, takeaways, created_at, updated_at
		FROM summaries
		WHERE id = $1
	`
	listSummariesQuery = `
		SELECT id, source, title, summary, details, takeaways, created_at, updated_at
		FROM summaries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
)

type PgSummaryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgSummaryRepository creates a PostgreSQL-backed SummaryRepository.
func NewPgSummaryRepository(pool *pgxpool.Pool, logger *zap.Logger) SummaryRepository {
	return &PgSummaryRepository{pool: pool, logger: logger.Named("PgSummaryRepo")}
}

// Save inserts the summary and fills in the database-assigned timestamps.
func (r *PgSummaryRepository) Save(ctx context.Context, s *models.Summary) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, insertSummaryQuery,
		s.ID, s.Source, s.Title, s.Summary, s.Details, s.Takeaways,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save summary", zap.String("id", s.ID.String()), zap.Error(err))
		return fmt.Errorf("error saving summary: %w", err)
	}
	r.logger.Debug("Summary saved", zap.String("id", s.ID.String()))
	return nil
}

// GetByID returns the summary or models.ErrNotFound.
func (r *PgSummaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	var s models.Summary
	err := pgxscan.Get(ctx, r.pool, &s, getSummaryByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get summary", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("error getting summary by id: %w", err)
	}
	return &s, nil
}

// List returns summaries ordered newest first.
func (r *PgSummaryRepository) List(ctx context.Context, limit, offset int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Summary
	if err := pgxscan.Select(ctx, r.pool, &out, listSummariesQuery, limit, offset); err != nil {
		r.logger.Error("Failed to list summaries", zap.Error(err))
		return nil, fmt.Errorf("error listing summaries: %w", err)
	}
	return out, nil
}
