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

// PostgresNodeRepository implements contentRepo.NodeRepository
type PostgresNodeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *postgres.RepositoryConfig) contentRepo.NodeRepository {
	return &PostgresNodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const nodeColumns = `id, workspace_id, container_id, parent_id, title, is_done, created_at, updated_at`

func scanNode(row pgx.Row, n *models.Node) error {
	return row.Scan(
		&n.ID,
		&n.WorkspaceID,
		&n.ContainerID,
		&n.ParentID,
		&n.Title,
		&n.IsDone,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
}

func (r *PostgresNodeRepository) queryNodes(ctx context.Context, op, query string, args ...interface{}) ([]models.Node, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	nodes := []models.Node{}
	for rows.Next() {
		var n models.Node
		if err := scanNode(rows, &n); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	return nodes, nil
}

// Create creates a new node
func (r *PostgresNodeRepository) Create(ctx context.Context, n *models.Node) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, container_id, parent_id, title, is_done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		n.WorkspaceID,
		n.ContainerID,
		n.ParentID,
		n.Title,
		n.IsDone,
		n.CreatedAt,
		n.UpdatedAt,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("container or parent of node: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create node: %w", err)
	}

	return nil
}

// GetByID retrieves a node by ID
func (r *PostgresNodeRepository) GetByID(ctx context.Context, id string) (*models.Node, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, nodeColumns, r.tables.Nodes)

	var n models.Node
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanNode(executor.QueryRow(ctx, query, id), &n); err != nil {
		return nil, lookupErr(err, "node", id)
	}

	return &n, nil
}

// GetByIDs retrieves the nodes that exist among ids
func (r *PostgresNodeRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Node, error) {
	result := make(map[string]*models.Node, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1::uuid[])`, nodeColumns, r.tables.Nodes)
	nodes, err := r.queryNodes(ctx, "get nodes", query, ids)
	if err != nil {
		return nil, err
	}

	for i := range nodes {
		result[nodes[i].ID] = &nodes[i]
	}
	return result, nil
}

// ListChildren lists immediate children of parentID (nil = container roots)
func (r *PostgresNodeRepository) ListChildren(ctx context.Context, containerID string, parentID *string) ([]models.Node, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE container_id = $1 AND parent_id IS NOT DISTINCT FROM $2::uuid
	`, nodeColumns, r.tables.Nodes)

	return r.queryNodes(ctx, "list children", query, containerID, parentID)
}

// ListByContainer lists every node of a container
func (r *PostgresNodeRepository) ListByContainer(ctx context.Context, containerID string) ([]models.Node, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE container_id = $1`, nodeColumns, r.tables.Nodes)
	return r.queryNodes(ctx, "list container nodes", query, containerID)
}

// UpdateParent moves a node under n.ParentID
func (r *PostgresNodeRepository) UpdateParent(ctx context.Context, n *models.Node) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, n.ParentID, n.UpdatedAt, n.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent of node %s: %w", n.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update node parent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", n.ID, domain.ErrNotFound)
	}

	return nil
}

// Update updates title and completion state
func (r *PostgresNodeRepository) Update(ctx context.Context, n *models.Node) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, is_done = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, n.Title, n.IsDone, n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("update node: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", n.ID, domain.ErrNotFound)
	}

	return nil
}

// DeleteMany deletes the given nodes
func (r *PostgresNodeRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1::uuid[])`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}

	return nil
}

// DeleteByContainer removes every node of a container
func (r *PostgresNodeRepository) DeleteByContainer(ctx context.Context, containerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE container_id = $1`, r.tables.Nodes)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, containerID); err != nil {
		return fmt.Errorf("delete container nodes: %w", err)
	}

	return nil
}
