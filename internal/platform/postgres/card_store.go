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

// cardColumns is the canonical column order for card SELECTs; scanCard
// must stay in sync with it.
var cardColumns = []string{
	"id",
	"user_id",
	"vocab_id",
	"folder_id",
	"curve_type",
	"stage",
	"ease_factor",
	"interval_seconds",
	"next_due_at",
	"correct_count",
	"incorrect_count",
	"total_study_time_ms",
	"is_mastered",
	"version",
	"created_at",
	"updated_at",
}

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.CardStore.CreateMultiple
// All cards are inserted with a single statement; the caller is expected
// to run this inside a transaction when atomicity with other writes matters.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	insert := psql.Insert("cards").Columns(cardColumns...)
	for _, c := range cards {
		insert = insert.Values(
			c.ID,
			c.UserID,
			c.VocabID,
			c.FolderID,
			c.CurveType,
			c.Stage,
			c.EaseFactor,
			c.IntervalSeconds,
			c.NextDueAt,
			c.CorrectCount,
			c.IncorrectCount,
			c.TotalStudyTimeMs,
			c.IsMastered,
			c.Version,
			c.CreatedAt,
			c.UpdatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "created cards", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query, args, err := psql.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// UpdateReviewed implements store.CardStore.UpdateReviewed
// The WHERE clause pins the version read by the caller; losing the race
// yields zero affected rows, which is disambiguated into ErrConflict or
// ErrCardNotFound by a follow-up existence check.
func (s *PostgresCardStore) UpdateReviewed(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Update("cards").
		Set("stage", card.Stage).
		Set("ease_factor", card.EaseFactor).
		Set("interval_seconds", card.IntervalSeconds).
		Set("next_due_at", card.NextDueAt).
		Set("correct_count", card.CorrectCount).
		Set("incorrect_count", card.IncorrectCount).
		Set("total_study_time_ms", card.TotalStudyTimeMs).
		Set("is_mastered", card.IsMastered).
		Set("version", card.Version+1).
		Set("updated_at", card.UpdatedAt).
		Where(squirrel.Eq{"id": card.ID, "version": card.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: either the card is gone or another review advanced it.
	if _, err := s.GetByID(ctx, card.ID); err != nil {
		return err
	}

	s.logger.WarnContext(ctx, "card version conflict",
		slog.String("card_id", card.ID.String()),
		slog.Int("version", card.Version))
	return fmt.Errorf("%w: card %s at version %d", store.ErrConflict, card.ID, card.Version)
}

// GetDueSet implements store.CardStore.GetDueSet
// A card is due when its own clock has run out, or when it sits in a
// manual folder that has not been completed yet; manual folders gate on
// that flag alone, never on a timestamp. Scheduled cards come back most
// overdue first, manual-folder cards after them.
func (s *PostgresCardStore) GetDueSet(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	prefixed := make([]string, len(cardColumns))
	for i, col := range cardColumns {
		prefixed[i] = "c." + col
	}

	query, args, err := psql.Select(prefixed...).
		From("cards c").
		Join("folders f ON f.id = c.folder_id").
		Where(squirrel.Eq{"c.user_id": userID, "c.is_mastered": false}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.NotEq{"c.next_due_at": nil},
				squirrel.LtOrEq{"c.next_due_at": now},
			},
			squirrel.Eq{"f.kind": domain.FolderKindManual, "f.is_completed": false},
		}).
		OrderBy("c.next_due_at ASC NULLS LAST").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due set query: %w", err)
	}

	return s.queryCards(ctx, query, args)
}

// ListByFolder implements store.CardStore.ListByFolder
func (s *PostgresCardStore) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*domain.Card, error) {
	query, args, err := psql.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"folder_id": folderID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build folder cards query: %w", err)
	}

	return s.queryCards(ctx, query, args)
}

// CountByFolder implements store.CardStore.CountByFolder
func (s *PostgresCardStore) CountByFolder(
	ctx context.Context,
	folderID uuid.UUID,
) (int, int, error) {
	query, args, err := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE is_mastered)",
	).
		From("cards").
		Where(squirrel.Eq{"folder_id": folderID}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build folder count query: %w", err)
	}

	var total, mastered int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total, &mastered); err != nil {
		return 0, 0, MapError(err)
	}

	return total, mastered, nil
}

// CountDueByFolder implements store.CardStore.CountDueByFolder
func (s *PostgresCardStore) CountDueByFolder(
	ctx context.Context,
	folderID uuid.UUID,
	now time.Time,
) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("cards").
		Where(squirrel.Eq{"folder_id": folderID, "is_mastered": false}).
		Where(squirrel.NotEq{"next_due_at": nil}).
		Where(squirrel.LtOrEq{"next_due_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build due count query: %w", err)
	}

	var due int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&due); err != nil {
		return 0, MapError(err)
	}

	return due, nil
}

// ResetForFolder implements store.CardStore.ResetForFolder
// Free-curve cards keep a NULL due time; everything else becomes due
// immediately. Review counters survive the reset on purpose so lifetime
// accuracy stays meaningful across folder cycles.
func (s *PostgresCardStore) ResetForFolder(
	ctx context.Context,
	folderID uuid.UUID,
	now time.Time,
) (int64, error) {
	query, args, err := psql.Update("cards").
		Set("stage", 0).
		Set("ease_factor", domain.DefaultEaseFactor).
		Set("interval_seconds", 0).
		Set("next_due_at", squirrel.Expr(
			"CASE WHEN curve_type = ? THEN NULL ELSE ?::timestamptz END",
			domain.CurveFree, now,
		)).
		Set("is_mastered", false).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", now).
		Where(squirrel.Eq{"folder_id": folderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build card reset: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.DebugContext(ctx, "reset folder cards",
		slog.String("folder_id", folderID.String()),
		slog.Int64("count", rows))
	return rows, nil
}

func (s *PostgresCardStore) queryCards(
	ctx context.Context,
	query string,
	args []any,
) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card      domain.Card
		curve     string
		nextDueAt sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.VocabID,
		&card.FolderID,
		&curve,
		&card.Stage,
		&card.EaseFactor,
		&card.IntervalSeconds,
		&nextDueAt,
		&card.CorrectCount,
		&card.IncorrectCount,
		&card.TotalStudyTimeMs,
		&card.IsMastered,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.CurveType = domain.CurveType(curve)
	if nextDueAt.Valid {
		t := nextDueAt.Time
		card.NextDueAt = &t
	}

	return &card, nil
}
