package models

import (
	"time"

	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Context is the flexible metadata bag carried by every event. Feature code
// may store arbitrary keys; the writer guarantees the well-known enrichment
// keys "source", "trigger_route" and "duration_ms" when they are supplied.
type Context map[string]interface{}

// Well-known context keys populated by the writer.
const (
	CtxSource       = "source"
	CtxTriggerRoute = "trigger_route"
	CtxDurationMS   = "duration_ms"
	CtxProvider     = "provider"
)

// ActivityEvent is one immutable record of something happening. Events are
// written once by the activity writer and never mutated.
type ActivityEvent struct {
	ID          string             `json:"id"`
	OrgID       string             `json:"org_id"`
	UserID      *string            `json:"user_id,omitempty"`
	Type        taxonomy.EventType `json:"type"`
	DocumentID  *string            `json:"document_id,omitempty"`
	VersionID   *string            `json:"version_id,omitempty"`
	WorkItemID  *string            `json:"work_item_id,omitempty"`
	ShareLinkID *string            `json:"share_link_id,omitempty"`
	EnvelopeID  *string            `json:"envelope_id,omitempty"`
	Context     Context            `json:"context,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Group returns the taxonomy group this event's type belongs to.
// Stored types are always known, so the fallback never fires in practice.
func (e *ActivityEvent) Group() taxonomy.Group {
	g, _ := taxonomy.GroupOf(e.Type)
	return g
}

// Provider returns the connector provider recorded in the context,
// or "unknown" when absent.
func (e *ActivityEvent) Provider() string {
	if e.Context != nil {
		if p, ok := e.Context[CtxProvider].(string); ok && p != "" {
			return p
		}
	}
	return "unknown"
}

// EventInput is the caller-facing shape accepted by the activity writer.
// OrgID and Type are required; everything else is optional.
type EventInput struct {
	OrgID        string
	UserID       string
	Type         taxonomy.EventType
	DocumentID   string
	VersionID    string
	WorkItemID   string
	ShareLinkID  string
	EnvelopeID   string
	Source       string
	TriggerRoute string
	DurationMS   int64
	Context      Context
}

// FeedQuery bounds and filters a paginated activity feed read.
// From and To are inclusive absolute instants; preset ranges ("last 7d")
// are a client concern.
type FeedQuery struct {
	OrgID  string
	From   time.Time
	To     time.Time
	Groups []taxonomy.Group
	// Provider narrows connector events to one provider. It is only
	// meaningful when the connectors group is part of the filter.
	Provider string
	Search   string
	Limit    int
	Cursor   string
}

// FeedPage is one page of the activity feed.
type FeedPage struct {
	Items      []ActivityEvent `json:"data"`
	NextCursor *string         `json:"next_cursor"`
}

// Window is a [From, To] range over which rollup metrics are computed.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of calendar days (UTC) the window spans, inclusive.
func (w Window) Days() int {
	from := w.From.UTC().Truncate(24 * time.Hour)
	to := w.To.UTC().Truncate(24 * time.Hour)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from)/(24*time.Hour)) + 1
}

// DayBucket is one zero-filled calendar day in the metrics time series.
type DayBucket struct {
	Day    time.Time                `json:"day"`
	Counts map[taxonomy.Group]int64 `json:"counts"`
}

// InsightsMetrics is the merged result of the aggregation fan-out.
type InsightsMetrics struct {
	Window          Window                   `json:"window"`
	GroupTotals     map[taxonomy.Group]int64 `json:"group_totals"`
	SyncsByProvider map[string]int64         `json:"syncs_by_provider"`
	ActiveDocuments int64                    `json:"active_documents"`
	Daily           []DayBucket              `json:"daily"`
	// Degraded lists metrics that were zeroed because their sub-query
	// failed. Distinguishes "no data" from "not loaded" for the dashboard.
	Degraded []string `json:"degraded,omitempty"`
}

// CardRange is a named lookback range for highlight cards.
type CardRange string

const (
	Range7d  CardRange = "7d"
	Range30d CardRange = "30d"
	Range90d CardRange = "90d"
)

// Duration returns the lookback duration for a card range.
func (r CardRange) Duration() (time.Duration, bool) {
	switch r {
	case Range7d:
		return 7 * 24 * time.Hour, true
	case Range30d:
		return 30 * 24 * time.Hour, true
	case Range90d:
		return 90 * 24 * time.Hour, true
	}
	return 0, false
}

// Card is one ranked highlight for the insights dashboard.
type Card struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Value  int64  `json:"value"`
	Period string `json:"period"`
	Kind   string `json:"kind"`
	CTA    string `json:"cta,omitempty"`
}

// CardsResponse wraps the card set for the HTTP surface.
type CardsResponse struct {
	OK    bool   `json:"ok"`
	Cards []Card `json:"cards"`
	Error string `json:"error,omitempty"`
}

// Principal identifies the authenticated caller.
type Principal struct {
	UserID string
	OrgID  string
}
