// Package reader serves the paginated, filterable activity feed.
package reader

import (
	"context"
	"time"

	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/metrics"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/repository"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Store is the event store surface the reader depends on.
type Store interface {
	ListEvents(ctx context.Context, p repository.ListParams) ([]models.ActivityEvent, error)
}

// Options clamp feed page sizes.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Reader answers feed queries with keyset pagination.
type Reader struct {
	store Store
	opts  Options
}

// New creates a Reader. Zero option fields fall back to 50/200.
func New(store Store, opts Options) *Reader {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	return &Reader{store: store, opts: opts}
}

// ListEvents returns one feed page in strictly descending (created_at, id)
// order plus a cursor for the next older page, or a nil cursor at the end.
// An empty page is a valid, non-error response.
func (r *Reader) ListEvents(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error) {
	start := time.Now()
	page, err := r.listEvents(ctx, q)
	metrics.FeedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if faults.IsValidation(err) {
			metrics.FeedRequests.WithLabelValues("invalid").Inc()
		} else {
			metrics.FeedRequests.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.FeedRequests.WithLabelValues("ok").Inc()
	return page, nil
}

func (r *Reader) listEvents(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error) {
	if q.OrgID == "" {
		return nil, faults.Validation("org id is required")
	}
	if q.From.IsZero() || q.To.IsZero() {
		return nil, faults.Validation("time range is required")
	}
	if q.From.After(q.To) {
		return nil, faults.Validation("range start %s is after range end %s",
			q.From.Format(time.RFC3339), q.To.Format(time.RFC3339))
	}
	for _, g := range q.Groups {
		if !taxonomy.IsKnownGroup(g) {
			return nil, faults.Validation("unknown group %q", g)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = r.opts.DefaultLimit
	}
	if limit > r.opts.MaxLimit {
		limit = r.opts.MaxLimit
	}

	params := repository.ListParams{
		OrgID:  q.OrgID,
		From:   q.From,
		To:     q.To,
		Search: q.Search,
		// One extra row decides whether a next page exists.
		Limit: limit + 1,
	}
	if len(q.Groups) > 0 {
		params.Types = taxonomy.TypesOfGroups(q.Groups)
	}
	// Provider only narrows connector events; when the group filter excludes
	// connectors entirely the parameter is inert.
	if q.Provider != "" && groupsInclude(q.Groups, taxonomy.GroupConnectors) {
		params.Provider = q.Provider
		params.ProviderTypes = taxonomy.TypesOf(taxonomy.GroupConnectors)
	}
	if q.Cursor != "" {
		c, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, faults.Validation("invalid cursor")
		}
		params.CursorCreated = &c.CreatedAt
		params.CursorID = c.ID
	}

	items, err := r.store.ListEvents(ctx, params)
	if err != nil {
		return nil, faults.Storage("list events", err)
	}

	page := &models.FeedPage{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next := encodeCursor(cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	page.Items = items
	if page.Items == nil {
		page.Items = []models.ActivityEvent{}
	}
	return page, nil
}

func groupsInclude(groups []taxonomy.Group, want taxonomy.Group) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if g == want {
			return true
		}
	}
	return false
}
