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

// PostgresOrderRepository implements contentRepo.OrderRepository.
// The (scope_key, sort_key) constraint is deferred, so batches that pass
// through duplicate keys must run inside a transaction.
type PostgresOrderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(config *postgres.RepositoryConfig) contentRepo.OrderRepository {
	return &PostgresOrderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const orderColumns = `scope_key, entity_kind, entity_id, sort_key, created_at`

func scanOrderEntry(row pgx.Row, e *models.OrderEntry) error {
	var kind string
	if err := row.Scan(&e.ScopeKey, &kind, &e.Ref.ID, &e.SortKey, &e.CreatedAt); err != nil {
		return err
	}
	e.Ref.Kind = models.EntityKind(kind)
	return nil
}

// Insert adds a new entry
func (r *PostgresOrderRepository) Insert(ctx context.Context, entry *models.OrderEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (entity_kind, entity_id, scope_key, sort_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		string(entry.Ref.Kind),
		entry.Ref.ID,
		entry.ScopeKey,
		entry.SortKey,
		entry.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s is already ordered", entry.Ref),
				ResourceType: string(entry.Ref.Kind),
				ResourceID:   entry.Ref.ID,
			}
		}
		return fmt.Errorf("insert order entry: %w", err)
	}

	return nil
}

// Get returns the entry of ref
func (r *PostgresOrderRepository) Get(ctx context.Context, ref models.EntityRef) (*models.OrderEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE entity_kind = $1 AND entity_id = $2
	`, orderColumns, r.tables.OrderEntries)

	var e models.OrderEntry
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanOrderEntry(executor.QueryRow(ctx, query, string(ref.Kind), ref.ID), &e); err != nil {
		return nil, lookupErr(err, "order entry", ref.String())
	}

	return &e, nil
}

// List returns the scope's entries in order
func (r *PostgresOrderRepository) List(ctx context.Context, scopeKey string) ([]models.OrderEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE scope_key = $1
		ORDER BY sort_key, created_at, entity_id
	`, orderColumns, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, scopeKey)
	if err != nil {
		return nil, fmt.Errorf("list order entries: %w", err)
	}
	defer rows.Close()

	entries := []models.OrderEntry{}
	for rows.Next() {
		var e models.OrderEntry
		if err := scanOrderEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan order entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order entries: %w", err)
	}

	return entries, nil
}

// ListByScopePrefix returns every entry under prefix, grouped by scope
func (r *PostgresOrderRepository) ListByScopePrefix(ctx context.Context, prefix string) ([]models.OrderEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE starts_with(scope_key, $1)
		ORDER BY scope_key, sort_key, created_at, entity_id
	`, orderColumns, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list order entries by scope: %w", err)
	}
	defer rows.Close()

	entries := []models.OrderEntry{}
	for rows.Next() {
		var e models.OrderEntry
		if err := scanOrderEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan order entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order entries: %w", err)
	}

	return entries, nil
}

// MaxSortKey returns the largest sort key in the scope
func (r *PostgresOrderRepository) MaxSortKey(ctx context.Context, scopeKey string) (int, bool, error) {
	query := fmt.Sprintf(`SELECT MAX(sort_key) FROM %s WHERE scope_key = $1`, r.tables.OrderEntries)

	var max *int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, scopeKey).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("max sort key: %w", err)
	}

	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// SetSortKeys rewrites sort keys in one round trip
func (r *PostgresOrderRepository) SetSortKeys(ctx context.Context, entries []models.OrderEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET sort_key = $1
		WHERE entity_kind = $2 AND entity_id = $3
	`, r.tables.OrderEntries)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.SortKey, string(e.Ref.Kind), e.Ref.ID)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	defer results.Close()

	for _, e := range entries {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("set sort key of %s: %w", e.Ref, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("order entry %s: %w", e.Ref, domain.ErrNotFound)
		}
	}

	return nil
}

// Move places ref into scopeKey at sortKey
func (r *PostgresOrderRepository) Move(ctx context.Context, ref models.EntityRef, scopeKey string, sortKey int) error {
	query := fmt.Sprintf(`
		UPDATE %s SET scope_key = $1, sort_key = $2
		WHERE entity_kind = $3 AND entity_id = $4
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, scopeKey, sortKey, string(ref.Kind), ref.ID)
	if err != nil {
		return fmt.Errorf("move order entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order entry %s: %w", ref, domain.ErrNotFound)
	}

	return nil
}

// Delete removes entries of refs
func (r *PostgresOrderRepository) Delete(ctx context.Context, refs ...models.EntityRef) error {
	if len(refs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE entity_kind = $1 AND entity_id = $2`, r.tables.OrderEntries)

	batch := &pgx.Batch{}
	for _, ref := range refs {
		batch.Queue(query, string(ref.Kind), ref.ID)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("delete order entries: %w", err)
	}

	return nil
}

// DeleteByScopePrefix removes every entry whose scope key starts with prefix
func (r *PostgresOrderRepository) DeleteByScopePrefix(ctx context.Context, prefix string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE starts_with(scope_key, $1)`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, prefix); err != nil {
		return fmt.Errorf("delete order entries by scope: %w", err)
	}

	return nil
}
