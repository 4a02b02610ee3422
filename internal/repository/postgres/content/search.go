package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/repository/postgres"
)

// PostgresTextMatcher implements contentRepo.TextMatcher with Postgres
// full-text search.
//
//   - to_tsvector(language, field) tokenizes the field, as indexed by EnsureSchema
//   - websearch_to_tsquery(language, query) accepts Google-like syntax (OR, -, "phrases")
//   - ts_rank scores a match; titles and names weigh 2x over note bodies
type PostgresTextMatcher struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewTextMatcher creates a new full-text matcher
func NewTextMatcher(config *postgres.RepositoryConfig) contentRepo.TextMatcher {
	return &PostgresTextMatcher{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Match returns one page of matches ranked by relevance, and the total count
func (m *PostgresTextMatcher) Match(ctx context.Context, opts *models.SearchOptions) ([]models.EntityMatch, int, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid search options: %w", err)
	}

	matches, args, paramIndex := m.matchesQuery(opts)
	if matches == "" {
		return []models.EntityMatch{}, 0, nil
	}

	pageQuery := fmt.Sprintf(`
		WITH matches AS (%s)
		SELECT kind, id, score FROM matches
		ORDER BY score DESC, kind, id
		LIMIT $%d OFFSET $%d
	`, matches, paramIndex, paramIndex+1)
	pageArgs := append(append([]interface{}{}, args...), opts.Limit, opts.Offset)

	executor := postgres.GetExecutor(ctx, m.pool)
	rows, err := executor.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("full-text search query failed: %w", err)
	}
	defer rows.Close()

	results := []models.EntityMatch{}
	for rows.Next() {
		var (
			kind  string
			match models.EntityMatch
		)
		if err := rows.Scan(&kind, &match.Ref.ID, &match.Score); err != nil {
			return nil, 0, fmt.Errorf("scan search match: %w", err)
		}
		match.Ref.Kind = models.EntityKind(kind)
		results = append(results, match)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate search matches: %w", err)
	}

	countQuery := fmt.Sprintf(`WITH matches AS (%s) SELECT COUNT(*) FROM matches`, matches)

	var total int
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	return results, total, nil
}

// matchesQuery builds a UNION over the requested kinds. $1 is the query;
// ownership and workspace filters follow. The validated language is inlined
// so the expressions match the full-text indexes.
func (m *PostgresTextMatcher) matchesQuery(opts *models.SearchOptions) (string, []interface{}, int) {
	args := []interface{}{opts.Query}
	paramIndex := 2

	var filters []string
	if opts.UserID != "" {
		filters = append(filters, fmt.Sprintf("w.user_id::text = $%d", paramIndex))
		args = append(args, opts.UserID)
		paramIndex++
	}
	if opts.WorkspaceID != "" {
		filters = append(filters, fmt.Sprintf("w.id::text = $%d", paramIndex))
		args = append(args, opts.WorkspaceID)
		paramIndex++
	}

	filter := ""
	if len(filters) > 0 {
		filter = " AND " + strings.Join(filters, " AND ")
	}

	query := fmt.Sprintf("websearch_to_tsquery('%s'::regconfig, $1)", opts.Language)
	tsv := func(column string) string { return postgres.TSVector(opts.Language, column) }

	var parts []string
	if opts.HasKind(models.KindContainer) {
		parts = append(parts, fmt.Sprintf(`
			SELECT 'container' AS kind, e.id::text AS id,
			       ts_rank(%[1]s, %[2]s) * 2.0 AS score
			FROM %[3]s e JOIN %[4]s w ON w.id = e.workspace_id
			WHERE %[1]s @@ %[2]s%[5]s`,
			tsv("e.name"), query, m.tables.Containers, m.tables.Workspaces, filter))
	}
	if opts.HasKind(models.KindNote) {
		parts = append(parts, fmt.Sprintf(`
			SELECT 'note' AS kind, e.id::text AS id,
			       ts_rank(%[1]s, %[3]s) * 2.0 + ts_rank(%[2]s, %[3]s) AS score
			FROM %[4]s e JOIN %[5]s w ON w.id = e.workspace_id
			WHERE (%[1]s @@ %[3]s OR %[2]s @@ %[3]s)%[6]s`,
			tsv("e.title"), tsv("e.body"), query, m.tables.Notes, m.tables.Workspaces, filter))
	}
	if opts.HasKind(models.KindNode) {
		parts = append(parts, fmt.Sprintf(`
			SELECT 'node' AS kind, e.id::text AS id,
			       ts_rank(%[1]s, %[2]s) * 2.0 AS score
			FROM %[3]s e JOIN %[4]s w ON w.id = e.workspace_id
			WHERE %[1]s @@ %[2]s%[5]s`,
			tsv("e.title"), query, m.tables.Nodes, m.tables.Workspaces, filter))
	}

	return strings.Join(parts, "\n\t\t\tUNION ALL"), args, paramIndex
}
