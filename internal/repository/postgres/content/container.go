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

// PostgresContainerRepository implements contentRepo.ContainerRepository
type PostgresContainerRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewContainerRepository creates a new container repository
func NewContainerRepository(config *postgres.RepositoryConfig) contentRepo.ContainerRepository {
	return &PostgresContainerRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const containerColumns = `id, workspace_id, kind, name, created_at, updated_at`

func scanContainer(row pgx.Row, c *models.Container) error {
	var kind string
	if err := row.Scan(&c.ID, &c.WorkspaceID, &kind, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.Kind = models.ContainerKind(kind)
	return nil
}

// Create creates a new container
func (r *PostgresContainerRepository) Create(ctx context.Context, c *models.Container) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, kind, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		c.WorkspaceID,
		string(c.Kind),
		c.Name,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", c.WorkspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create container: %w", err)
	}

	return nil
}

// GetByID retrieves a container by ID
func (r *PostgresContainerRepository) GetByID(ctx context.Context, id string) (*models.Container, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, containerColumns, r.tables.Containers)

	var c models.Container
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanContainer(executor.QueryRow(ctx, query, id), &c); err != nil {
		return nil, lookupErr(err, "container", id)
	}

	return &c, nil
}

// GetByIDs retrieves the containers that exist among ids
func (r *PostgresContainerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Container, error) {
	result := make(map[string]*models.Container, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1::uuid[])`, containerColumns, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get containers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Container
		if err := scanContainer(rows, &c); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		result[c.ID] = &c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}

	return result, nil
}

// ListByWorkspace lists a workspace's containers (unordered)
func (r *PostgresContainerRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Container, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE workspace_id = $1`, containerColumns, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()

	containers := []models.Container{}
	for rows.Next() {
		var c models.Container
		if err := scanContainer(rows, &c); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers = append(containers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}

	return containers, nil
}

// Update updates name and kind
func (r *PostgresContainerRepository) Update(ctx context.Context, c *models.Container) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, kind = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, c.Name, string(c.Kind), c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update container: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("container %s: %w", c.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a container row
func (r *PostgresContainerRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete container: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("container %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByWorkspace removes every container of a workspace
func (r *PostgresContainerRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Containers)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete workspace containers: %w", err)
	}

	return nil
}
