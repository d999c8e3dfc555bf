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

var folderColumns = []string{
	"id",
	"user_id",
	"name",
	"parent_id",
	"curve_type",
	"kind",
	"stage",
	"alarm_active",
	"is_completed",
	"is_mastered",
	"completion_count",
	"completed_at",
	"created_at",
	"updated_at",
}

// PostgresFolderStore implements the store.FolderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFolderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFolderStore creates a new PostgreSQL implementation of the FolderStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFolderStore(db store.DBTX, logger *slog.Logger) *PostgresFolderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFolderStore{
		db:     db,
		logger: logger.With(slog.String("component", "folder_store")),
	}
}

// Ensure PostgresFolderStore implements store.FolderStore interface
var _ store.FolderStore = (*PostgresFolderStore)(nil)

// WithTx implements store.FolderStore.WithTx
func (s *PostgresFolderStore) WithTx(tx *sql.Tx) store.FolderStore {
	return &PostgresFolderStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.FolderStore.Create
func (s *PostgresFolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Insert("folders").
		Columns(folderColumns...).
		Values(
			folder.ID,
			folder.UserID,
			folder.Name,
			folder.ParentID,
			folder.CurveType,
			folder.Kind,
			folder.Stage,
			folder.AlarmActive,
			folder.IsCompleted,
			folder.IsMastered,
			folder.CompletionCount,
			folder.CompletedAt,
			folder.CreatedAt,
			folder.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build folder insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "created folder", slog.String("folder_id", folder.ID.String()))
	return nil
}

// GetByID implements store.FolderStore.GetByID
func (s *PostgresFolderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	query, args, err := psql.Select(folderColumns...).
		From("folders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build folder query: %w", err)
	}

	folder, err := scanFolder(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrFolderNotFound
		}
		return nil, MapError(err)
	}

	return folder, nil
}

// ListByUser implements store.FolderStore.ListByUser
func (s *PostgresFolderStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Folder, error) {
	query, args, err := psql.Select(folderColumns...).
		From("folders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build folder list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var folders []*domain.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, MapError(err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return folders, nil
}

// CountChildren implements store.FolderStore.CountChildren
func (s *PostgresFolderStore) CountChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("folders").
		Where(squirrel.Eq{"parent_id": parentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build child count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// Update implements store.FolderStore.Update
func (s *PostgresFolderStore) Update(ctx context.Context, folder *domain.Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Update("folders").
		Set("name", folder.Name).
		Set("stage", folder.Stage).
		Set("alarm_active", folder.AlarmActive).
		Set("is_completed", folder.IsCompleted).
		Set("is_mastered", folder.IsMastered).
		Set("completion_count", folder.CompletionCount).
		Set("completed_at", folder.CompletedAt).
		Set("updated_at", folder.UpdatedAt).
		Where(squirrel.Eq{"id": folder.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build folder update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "folder"); err != nil {
		return store.ErrFolderNotFound
	}

	return nil
}

// Delete implements store.FolderStore.Delete
func (s *PostgresFolderStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("folders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build folder delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "folder"); err != nil {
		return store.ErrFolderNotFound
	}

	s.logger.DebugContext(ctx, "deleted folder", slog.String("folder_id", id.String()))
	return nil
}

func scanFolder(row rowScanner) (*domain.Folder, error) {
	var (
		folder      domain.Folder
		curve       string
		kind        string
		parentID    uuid.NullUUID
		completedAt sql.NullTime
	)

	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&parentID,
		&curve,
		&kind,
		&folder.Stage,
		&folder.AlarmActive,
		&folder.IsCompleted,
		&folder.IsMastered,
		&folder.CompletionCount,
		&completedAt,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	folder.CurveType = domain.CurveType(curve)
	folder.Kind = domain.FolderKind(kind)
	if parentID.Valid {
		id := parentID.UUID
		folder.ParentID = &id
	}
	if completedAt.Valid {
		t := completedAt.Time
		folder.CompletedAt = &t
	}

	return &folder, nil
}
