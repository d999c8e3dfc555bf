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

var vocabColumns = []string{
	"id",
	"lemma",
	"pos",
	"level_cefr",
	"translation",
	"example",
	"created_at",
}

// PostgresVocabStore implements the store.VocabStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabStore creates a new PostgreSQL implementation of the VocabStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresVocabStore(db store.DBTX, logger *slog.Logger) *PostgresVocabStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocab_store")),
	}
}

// Ensure PostgresVocabStore implements store.VocabStore interface
var _ store.VocabStore = (*PostgresVocabStore)(nil)

// WithTx implements store.VocabStore.WithTx
func (s *PostgresVocabStore) WithTx(tx *sql.Tx) store.VocabStore {
	return &PostgresVocabStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.VocabStore.Create
func (s *PostgresVocabStore) Create(ctx context.Context, item *domain.VocabItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Insert("vocab_items").
		Columns(vocabColumns...).
		Values(
			item.ID,
			item.Lemma,
			item.Pos,
			item.LevelCEFR,
			item.Translation,
			item.Example,
			item.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build vocab insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.VocabStore.GetByID
func (s *PostgresVocabStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabItem, error) {
	query, args, err := psql.Select(vocabColumns...).
		From("vocab_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vocab query: %w", err)
	}

	item, err := scanVocab(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrVocabNotFound
		}
		return nil, MapError(err)
	}

	return item, nil
}

// GetByIDs implements store.VocabStore.GetByIDs
// A missing ID fails the whole lookup so callers never silently mint cards
// for vocabulary that does not exist.
func (s *PostgresVocabStore) GetByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.VocabItem, error) {
	if len(ids) == 0 {
		return []*domain.VocabItem{}, nil
	}

	query, args, err := psql.Select(vocabColumns...).
		From("vocab_items").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vocab batch query: %w", err)
	}

	items, err := s.queryVocab(ctx, query, args)
	if err != nil {
		return nil, err
	}

	if len(items) != len(ids) {
		return nil, fmt.Errorf(
			"%w: requested %d items, found %d",
			store.ErrVocabNotFound, len(ids), len(items),
		)
	}

	return items, nil
}

// List implements store.VocabStore.List
func (s *PostgresVocabStore) List(
	ctx context.Context,
	limit, offset int,
) ([]*domain.VocabItem, error) {
	query, args, err := psql.Select(vocabColumns...).
		From("vocab_items").
		OrderBy("lemma ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vocab list query: %w", err)
	}

	return s.queryVocab(ctx, query, args)
}

func (s *PostgresVocabStore) queryVocab(
	ctx context.Context,
	query string,
	args []any,
) ([]*domain.VocabItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.VocabItem
	for rows.Next() {
		item, err := scanVocab(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

func scanVocab(row rowScanner) (*domain.VocabItem, error) {
	var (
		item        domain.VocabItem
		translation sql.NullString
		example     sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.Lemma,
		&item.Pos,
		&item.LevelCEFR,
		&translation,
		&example,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if translation.Valid {
		v := translation.String
		item.Translation = &v
	}
	if example.Valid {
		v := example.String
		item.Example = &v
	}

	return &item, nil
}
