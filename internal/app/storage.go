// Package app wires configuration to storage for the server and seed commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"later/internal/config"
	"later/internal/repository/memory"
	"later/internal/repository/postgres"
	pgContent "later/internal/repository/postgres/content"
	contentService "later/internal/service/content"
)

// Storage is an opened persistence backend
type Storage struct {
	Repos contentService.Repositories
	// Pool is nil for the memory backend
	Pool   *pgxpool.Pool
	Tables *postgres.TableNames
}

// Close releases the backend's connections
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenStorage opens the backend selected by cfg.Storage. The postgres schema
// is created when missing.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.Storage {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		return openMemory(), nil
	case "postgres", "":
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

func openMemory() *Storage {
	store := memory.NewStore()
	return &Storage{
		Repos: contentService.Repositories{
			Workspaces: memory.NewWorkspaceRepository(store),
			Containers: memory.NewContainerRepository(store),
			Notes:      memory.NewNoteRepository(store),
			Nodes:      memory.NewNodeRepository(store),
			Order:      memory.NewOrderRepository(store),
			Matcher:    memory.NewTextMatcher(store),
			TxManager:  store.TransactionManager(),
			Serializer: store.ScopeSerializer(),
		},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	if cfg.SupabaseDBURL == "" {
		return nil, fmt.Errorf("SUPABASE_DB_URL is required for postgres storage")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("database connected",
		"table_prefix", cfg.TablePrefix,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Storage{
		Repos: contentService.Repositories{
			Workspaces: pgContent.NewWorkspaceRepository(repoConfig),
			Containers: pgContent.NewContainerRepository(repoConfig),
			Notes:      pgContent.NewNoteRepository(repoConfig),
			Nodes:      pgContent.NewNodeRepository(repoConfig),
			Order:      pgContent.NewOrderRepository(repoConfig),
			Matcher:    pgContent.NewTextMatcher(repoConfig),
			TxManager:  postgres.NewTransactionManager(pool, logger),
			Serializer: postgres.NewAdvisoryLocker(),
		},
		Pool:   pool,
		Tables: tables,
	}, nil
}
