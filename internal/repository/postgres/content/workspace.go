package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/repository/postgres"
)

// PostgresWorkspaceRepository implements contentRepo.WorkspaceRepository
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *postgres.RepositoryConfig) contentRepo.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		ws.UserID,
		ws.Name,
		ws.CreatedAt,
		ws.UpdatedAt,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.conflict(ctx, ws)
		}
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace owned by userID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id, userID string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Workspaces)

	var ws models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&ws.ID,
		&ws.UserID,
		&ws.Name,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, lookupErr(err, "workspace", id)
	}

	return &ws, nil
}

// GetByIDOnly retrieves a workspace without ownership scoping
func (r *PostgresWorkspaceRepository) GetByIDOnly(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Workspaces)

	var ws models.Workspace
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&ws.ID,
		&ws.UserID,
		&ws.Name,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, lookupErr(err, "workspace", id)
	}

	return &ws, nil
}

// List retrieves all workspaces for a user, oldest first
func (r *PostgresWorkspaceRepository) List(ctx context.Context, userID string) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at, id
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		var ws models.Workspace
		if err := rows.Scan(&ws.ID, &ws.UserID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}

// Update updates a workspace's name and updated_at timestamp
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ws.Name, ws.UpdatedAt, ws.ID, ws.UserID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.conflict(ctx, ws)
		}
		return fmt.Errorf("update workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", ws.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a workspace row
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Workspaces)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// conflict builds a ConflictError pointing at the workspace that already has ws.Name
func (r *PostgresWorkspaceRepository) conflict(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1 AND name = $2`, r.tables.Workspaces)

	var existingID string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, ws.UserID, ws.Name).Scan(&existingID); err != nil {
		return fmt.Errorf("workspace '%s' already exists: %w", ws.Name, domain.ErrConflict)
	}

	return &domain.ConflictError{
		Message:      fmt.Sprintf("workspace '%s' already exists", ws.Name),
		ResourceType: "workspace",
		ResourceID:   existingID,
	}
}
