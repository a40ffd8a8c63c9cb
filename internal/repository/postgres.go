package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// referenceTables is the fixed set of tables a reference field may point at.
// Table names are never interpolated from caller input outside this set.
var referenceTables = map[string]bool{
	"documents":         true,
	"document_versions": true,
	"work_items":        true,
	"share_links":       true,
	"envelopes":         true,
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() { r.pool.Close() }

// Ping reports whether the store is reachable at all.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// InsertEvent appends one immutable event row. The store assigns id and
// created_at; both are returned. Single row, single statement - no partial
// writes are possible.
func (r *PostgresRepository) InsertEvent(ctx context.Context, e *models.ActivityEvent) (string, time.Time, error) {
	q := `INSERT INTO activity_events (
	        org_id, user_id, type, document_id, version_id, work_item_id,
	        share_link_id, envelope_id, context
	      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	      RETURNING id, created_at`

	var id string
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, q,
		e.OrgID, e.UserID, string(e.Type), e.DocumentID, e.VersionID,
		e.WorkItemID, e.ShareLinkID, e.EnvelopeID, e.Context,
	).Scan(&id, &createdAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert event: %w", err)
	}
	return id, createdAt, nil
}

// Exists performs a single existence lookup against one of the referenceable
// tables. Unknown table names are a programmer error.
func (r *PostgresRepository) Exists(ctx context.Context, table, id string) (bool, error) {
	if !referenceTables[table] {
		return false, fmt.Errorf("table %q is not referenceable", table)
	}
	var found bool
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table)
	if err := r.pool.QueryRow(ctx, q, id).Scan(&found); err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return found, nil
}

// ListParams bounds an org-scoped feed read. Types is the expansion of the
// caller's group filter; an empty slice means no type constraint.
type ListParams struct {
	OrgID string
	From  time.Time
	To    time.Time
	Types []taxonomy.EventType
	// Provider narrows connector events; events of other types pass through.
	Provider      string
	ProviderTypes []taxonomy.EventType
	Search        string
	CursorCreated *time.Time
	CursorID      string
	Limit         int
}

// ListEvents returns up to Limit events in strictly descending
// (created_at, id) order. The composite key makes pagination stable even when
// rows share a timestamp.
func (r *PostgresRepository) ListEvents(ctx context.Context, p ListParams) ([]models.ActivityEvent, error) {
	q := `SELECT id, org_id, user_id, type, document_id, version_id, work_item_id,
	             share_link_id, envelope_id, context, created_at
	      FROM activity_events
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3`
	args := []interface{}{p.OrgID, p.From, p.To}

	if len(p.Types) > 0 {
		args = append(args, typeStrings(p.Types))
		q += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	if p.Provider != "" && len(p.ProviderTypes) > 0 {
		args = append(args, typeStrings(p.ProviderTypes))
		connectorArg := len(args)
		args = append(args, p.Provider)
		q += fmt.Sprintf(" AND (NOT (type = ANY($%d)) OR COALESCE(NULLIF(context->>'provider',''),'unknown') = $%d)",
			connectorArg, len(args))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		q += fmt.Sprintf(" AND (type ILIKE $%d OR context::text ILIKE $%d)", len(args), len(args))
	}
	if p.CursorCreated != nil && p.CursorID != "" {
		args = append(args, *p.CursorCreated)
		createdArg := len(args)
		args = append(args, p.CursorID)
		q += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d::uuid)", createdArg, len(args))
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []models.ActivityEvent
	for rows.Next() {
		var e models.ActivityEvent
		var typ string
		if err := rows.Scan(
			&e.ID, &e.OrgID, &e.UserID, &typ, &e.DocumentID, &e.VersionID,
			&e.WorkItemID, &e.ShareLinkID, &e.EnvelopeID, &e.Context, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = taxonomy.EventType(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func typeStrings(types []taxonomy.EventType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
