package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	models "later/internal/domain/models/content"
)

// EnsureSchema creates tables and indexes if they don't exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(user_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Containers + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK (kind IN ('todo_list', 'checklist')),
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Notes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Nodes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			container_id UUID NOT NULL REFERENCES ` + tables.Containers + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Nodes + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			is_done BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (parent_id IS NULL OR parent_id <> id)
		)`,
		// Sort keys are unique per scope at commit; renumbering passes through duplicates
		`CREATE TABLE IF NOT EXISTS ` + tables.OrderEntries + ` (
			entity_kind TEXT NOT NULL CHECK (entity_kind IN ('container', 'note', 'node')),
			entity_id UUID NOT NULL,
			scope_key TEXT NOT NULL,
			sort_key INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (entity_kind, entity_id),
			CONSTRAINT ` + tablePrefix + `order_entries_scope_sort_unique
				UNIQUE (scope_key, sort_key) DEFERRABLE INITIALLY DEFERRED
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `containers_workspace ON ` + tables.Containers + `(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `notes_workspace ON ` + tables.Notes + `(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `nodes_container_parent ON ` + tables.Nodes + `(container_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `order_entries_scope ON ` + tables.OrderEntries + `(scope_key text_pattern_ops)`,
	}
	indexes = append(indexes, ftsIndexes(tables, tablePrefix)...)

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// TSVector is the text search expression over column. The matcher and the
// GIN indexes both use it, so the planner can match query to index. language
// must be one of models.SearchLanguages.
func TSVector(language, column string) string {
	return fmt.Sprintf("to_tsvector('%s'::regconfig, %s)", language, column)
}

// ftsIndexes builds one GIN index per searched column and language
func ftsIndexes(tables *TableNames, tablePrefix string) []string {
	columns := []struct {
		name, table, column string
	}{
		{"containers_name", tables.Containers, "name"},
		{"notes_title", tables.Notes, "title"},
		{"notes_body", tables.Notes, "body"},
		{"nodes_title", tables.Nodes, "title"},
	}

	var out []string
	for _, language := range models.SearchLanguages {
		for _, c := range columns {
			out = append(out, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s%s_%s_fts ON %s USING GIN (%s)",
				tablePrefix, c.name, language, c.table, TSVector(language, c.column)))
		}
	}
	return out
}

// DropAll drops every table in dependency order
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
