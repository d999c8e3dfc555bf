package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

var streakColumns = []string{
	"user_id",
	"current_streak",
	"required_daily",
	"daily_quiz_count",
	"last_quiz_date",
	"updated_at",
}

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the StreakStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore interface
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// WithTx implements store.StreakStore.WithTx
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.StreakStore.Get
func (s *PostgresStreakStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	query, args, err := psql.Select(streakColumns...).
		From("streak_states").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build streak query: %w", err)
	}

	var state domain.StreakState
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&state.UserID,
		&state.CurrentStreak,
		&state.RequiredDaily,
		&state.DailyQuizCount,
		&state.LastQuizDate,
		&state.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrStreakNotFound
		}
		return nil, MapError(err)
	}

	return &state, nil
}

// Upsert implements store.StreakStore.Upsert
// The streak row is keyed by user, so an insert conflict simply replaces
// the previous state.
func (s *PostgresStreakStore) Upsert(ctx context.Context, state *domain.StreakState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Insert("streak_states").
		Columns(streakColumns...).
		Values(
			state.UserID,
			state.CurrentStreak,
			state.RequiredDaily,
			state.DailyQuizCount,
			state.LastQuizDate,
			state.UpdatedAt,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			required_daily = EXCLUDED.required_daily,
			daily_quiz_count = EXCLUDED.daily_quiz_count,
			last_quiz_date = EXCLUDED.last_quiz_date,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build streak upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}

	return nil
}
