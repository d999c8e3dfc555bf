package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

var reviewLogColumns = []string{
	"id",
	"card_id",
	"user_id",
	"correct",
	"quality",
	"response_time_ms",
	"study_time_ms",
	"prev_stage",
	"new_stage",
	"reviewed_at",
}

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewLogStore.Create
func (s *PostgresReviewLogStore) Create(ctx context.Context, entry *domain.ReviewLog) error {
	query, args, err := psql.Insert("review_logs").
		Columns(reviewLogColumns...).
		Values(
			entry.ID,
			entry.CardID,
			entry.UserID,
			entry.Correct,
			entry.Quality,
			entry.ResponseTimeMs,
			entry.StudyTimeMs,
			entry.PrevStage,
			entry.NewStage,
			entry.ReviewedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build review log insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}

	return nil
}

// StatsByUser implements store.ReviewLogStore.StatsByUser
func (s *PostgresReviewLogStore) StatsByUser(
	ctx context.Context,
	userID uuid.UUID,
) (store.ReviewStats, error) {
	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE correct)",
		"COALESCE(SUM(study_time_ms), 0)",
		"COALESCE(AVG(response_time_ms), 0)",
	).
		From("review_logs").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return store.ReviewStats{}, fmt.Errorf("failed to build stats query: %w", err)
	}

	var stats store.ReviewStats
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalReviews,
		&stats.CorrectReviews,
		&stats.TotalStudyTimeMs,
		&stats.AvgResponseMs,
	)
	if err != nil {
		return store.ReviewStats{}, MapError(err)
	}

	return stats, nil
}

// CountByUserSince implements store.ReviewLogStore.CountByUserSince
func (s *PostgresReviewLogStore) CountByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("review_logs").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"reviewed_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build review count query: %w", err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	query, args, err := psql.Select(reviewLogColumns...).
		From("review_logs").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build review history query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ReviewLog
	for rows.Next() {
		var (
			entry   domain.ReviewLog
			quality sql.NullInt64
		)
		err := rows.Scan(
			&entry.ID,
			&entry.CardID,
			&entry.UserID,
			&entry.Correct,
			&quality,
			&entry.ResponseTimeMs,
			&entry.StudyTimeMs,
			&entry.PrevStage,
			&entry.NewStage,
			&entry.ReviewedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		if quality.Valid {
			q := int(quality.Int64)
			entry.Quality = &q
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}
