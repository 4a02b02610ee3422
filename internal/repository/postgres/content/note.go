package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/repository/postgres"
)

// PostgresNoteRepository implements contentRepo.NoteRepository
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *postgres.RepositoryConfig) contentRepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const noteColumns = `id, workspace_id, title, body, created_at, updated_at`

func scanNote(row pgx.Row, n *models.Note) error {
	return row.Scan(&n.ID, &n.WorkspaceID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
}

// Create creates a new note
func (r *PostgresNoteRepository) Create(ctx context.Context, n *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		n.WorkspaceID,
		n.Title,
		n.Body,
		n.CreatedAt,
		n.UpdatedAt,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", n.WorkspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, noteColumns, r.tables.Notes)

	var n models.Note
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanNote(executor.QueryRow(ctx, query, id), &n); err != nil {
		return nil, lookupErr(err, "note", id)
	}

	return &n, nil
}

// GetByIDs retrieves the notes that exist among ids
func (r *PostgresNoteRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Note, error) {
	result := make(map[string]*models.Note, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1::uuid[])`, noteColumns, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Note
		if err := scanNote(rows, &n); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		result[n.ID] = &n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return result, nil
}

// ListByWorkspace lists a workspace's notes (unordered)
func (r *PostgresNoteRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE workspace_id = $1`, noteColumns, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := scanNote(rows, &n); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// Update updates title and body
func (r *PostgresNoteRepository) Update(ctx context.Context, n *models.Note) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, body = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, n.Title, n.Body, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a note
func (r *PostgresNoteRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByWorkspace removes every note of a workspace
func (r *PostgresNoteRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete workspace notes: %w", err)
	}

	return nil
}
