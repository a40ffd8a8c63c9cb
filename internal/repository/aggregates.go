package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultline/vaultline/internal/taxonomy"
)

// CountByType returns per-type event counts within the window. Folding types
// into groups happens in Go so the taxonomy mapping stays in one place.
func (r *PostgresRepository) CountByType(ctx context.Context, orgID string, from, to time.Time) (map[taxonomy.EventType]int64, error) {
	q := `SELECT type, COUNT(*)
	      FROM activity_events
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3
	      GROUP BY type`
	rows, err := r.pool.Query(ctx, q, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	out := make(map[taxonomy.EventType]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[taxonomy.EventType(typ)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	return out, nil
}

// CountByProvider returns connector event counts keyed by provider name.
// Provider lives in the context bag; rows without one count as "unknown".
func (r *PostgresRepository) CountByProvider(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (map[string]int64, error) {
	q := `SELECT COALESCE(NULLIF(context->>'provider', ''), 'unknown'), COUNT(*)
	      FROM activity_events
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3
	        AND type = ANY($4)
	      GROUP BY 1`
	rows, err := r.pool.Query(ctx, q, orgID, from, to, typeStrings(types))
	if err != nil {
		return nil, fmt.Errorf("count by provider: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var provider string
		var n int64
		if err := rows.Scan(&provider, &n); err != nil {
			return nil, fmt.Errorf("scan provider count: %w", err)
		}
		out[provider] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by provider: %w", err)
	}
	return out, nil
}

// CountDistinctDocuments returns the cardinality of the set of distinct
// non-null document references across the given types. COUNT(DISTINCT ...)
// is a set union, so a document touched by several event types counts once.
func (r *PostgresRepository) CountDistinctDocuments(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (int64, error) {
	q := `SELECT COUNT(DISTINCT document_id)
	      FROM activity_events
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3
	        AND type = ANY($4) AND document_id IS NOT NULL`
	var n int64
	if err := r.pool.QueryRow(ctx, q, orgID, from, to, typeStrings(types)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count distinct documents: %w", err)
	}
	return n, nil
}

// DailyTypeCount is one (day, type) bucket of the daily series, bucketed in UTC.
type DailyTypeCount struct {
	Day   time.Time
	Type  taxonomy.EventType
	Count int64
}

// CountDailyByType returns sparse per-day, per-type counts within the window.
// Zero-filling days with no events is the aggregator's job.
func (r *PostgresRepository) CountDailyByType(ctx context.Context, orgID string, from, to time.Time) ([]DailyTypeCount, error) {
	q := `SELECT date_trunc('day', created_at AT TIME ZONE 'UTC')::date, type, COUNT(*)
	      FROM activity_events
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3
	      GROUP BY 1, 2
	      ORDER BY 1`
	rows, err := r.pool.Query(ctx, q, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count daily: %w", err)
	}
	defer rows.Close()

	var out []DailyTypeCount
	for rows.Next() {
		var d DailyTypeCount
		var typ string
		if err := rows.Scan(&d.Day, &typ, &d.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		d.Type = taxonomy.EventType(typ)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count daily: %w", err)
	}
	return out, nil
}

// CountDecks returns how many decks the org generated in the window, from the
// deck feature's own table. Used by the card provider only.
func (r *PostgresRepository) CountDecks(ctx context.Context, orgID string, from, to time.Time) (int64, error) {
	q := `SELECT COUNT(*) FROM decks
	      WHERE org_id = $1 AND created_at >= $2 AND created_at <= $3`
	var n int64
	if err := r.pool.QueryRow(ctx, q, orgID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decks: %w", err)
	}
	return n, nil
}
