package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"later/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Workspaces   string
	Containers   string
	Notes        string
	Nodes        string
	OrderEntries string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Workspaces:   fmt.Sprintf("%sworkspaces", prefix),
		Containers:   fmt.Sprintf("%scontainers", prefix),
		Notes:        fmt.Sprintf("%snotes", prefix),
		Nodes:        fmt.Sprintf("%snodes", prefix),
		OrderEntries: fmt.Sprintf("%sorder_entries", prefix),
	}
}

// All returns every table, children before parents (safe drop order)
func (t *TableNames) All() []string {
	return []string{t.OrderEntries, t.Nodes, t.Notes, t.Containers, t.Workspaces}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Supabase's transaction pooler (port 6543) does not support prepared
// statements, so on that port the pool switches to QueryExecModeCacheDescribe
// unless the connection string already chose a mode via
// ?default_query_exec_mode=...
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each environment gets its own cached statement descriptions.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none.
// Repositories call it on every query so they join transactions transparently.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
