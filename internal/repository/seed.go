package repository

import (
	"context"
	"fmt"
	"time"
)

// Seeding helpers used by the demo seeder and integration tests. The owning
// feature services normally populate these tables.

// InsertDocument creates a document row the guard can verify against.
func (r *PostgresRepository) InsertDocument(ctx context.Context, id, orgID, name string) error {
	q := `INSERT INTO documents (id, org_id, name) VALUES ($1, $2, $3)
	      ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, id, orgID, name); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// InsertDeck creates a deck row for the card provider's feature aggregate.
func (r *PostgresRepository) InsertDeck(ctx context.Context, id, orgID, title string, createdAt time.Time) error {
	q := `INSERT INTO decks (id, org_id, title, created_at) VALUES ($1, $2, $3, $4)
	      ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, id, orgID, title, createdAt); err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}
	return nil
}
