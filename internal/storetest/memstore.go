// Package storetest provides an in-memory event store used by unit tests
// across the activity packages. It mirrors the query semantics of the
// Postgres repository closely enough to exercise pagination, filtering and
// aggregation logic without a database.
package storetest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/repository"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// MemStore is a concurrency-safe in-memory stand-in for the Postgres
// repository. Error fields, when set, make the corresponding operation fail.
type MemStore struct {
	mu     sync.Mutex
	events []models.ActivityEvent
	refs   map[string]map[string]bool
	decks  map[string][]time.Time
	clock  time.Time

	InsertErr error
	PingErr   error
	ExistsErr error
	// QueryErrs fails individual read operations by name:
	// "list", "count_by_type", "count_by_provider", "distinct_docs", "daily", "decks".
	QueryErrs map[string]error

	// Calls counts invocations per operation name.
	Calls map[string]int
}

// NewMemStore creates an empty store with a deterministic clock.
func NewMemStore() *MemStore {
	return &MemStore{
		refs:      make(map[string]map[string]bool),
		decks:     make(map[string][]time.Time),
		clock:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		QueryErrs: make(map[string]error),
		Calls:     make(map[string]int),
	}
}

func (m *MemStore) count(op string) {
	m.mu.Lock()
	m.Calls[op]++
	m.mu.Unlock()
}

// AddReference marks table/id as existing for guard lookups.
func (m *MemStore) AddReference(table, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refs[table] == nil {
		m.refs[table] = make(map[string]bool)
	}
	m.refs[table][id] = true
}

// AddDeck records one deck creation instant for org.
func (m *MemStore) AddDeck(orgID string, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks[orgID] = append(m.decks[orgID], createdAt)
}

// Events returns a snapshot of all stored events.
func (m *MemStore) Events() []models.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ActivityEvent, len(m.events))
	copy(out, m.events)
	return out
}

// InsertEvent appends an event, assigning id and a strictly advancing
// created_at.
func (m *MemStore) InsertEvent(ctx context.Context, e *models.ActivityEvent) (string, time.Time, error) {
	m.count("insert")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", time.Time{}, m.InsertErr
	}
	m.clock = m.clock.Add(time.Millisecond)
	stored := *e
	stored.ID = uuid.New().String()
	stored.CreatedAt = m.clock
	m.events = append(m.events, stored)
	return stored.ID, stored.CreatedAt, nil
}

// InsertEventAt appends an event with an explicit id and timestamp, for
// constructing timestamp ties and fixed windows in tests.
func (m *MemStore) InsertEventAt(e models.ActivityEvent, id string, at time.Time) models.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = id
	e.CreatedAt = at
	m.events = append(m.events, e)
	return e
}

// Exists reports whether table/id was registered via AddReference.
func (m *MemStore) Exists(ctx context.Context, table, id string) (bool, error) {
	m.count("exists")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.refs[table][id], nil
}

// Ping reports simulated store reachability.
func (m *MemStore) Ping(ctx context.Context) error {
	m.count("ping")
	return m.PingErr
}

// ListEvents mirrors the repository's filter and keyset-pagination semantics.
func (m *MemStore) ListEvents(ctx context.Context, p repository.ListParams) ([]models.ActivityEvent, error) {
	m.count("list")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["list"]; err != nil {
		return nil, err
	}

	typeSet := toSet(p.Types)
	providerSet := toSet(p.ProviderTypes)

	var matched []models.ActivityEvent
	for _, e := range m.events {
		if e.OrgID != p.OrgID {
			continue
		}
		if e.CreatedAt.Before(p.From) || e.CreatedAt.After(p.To) {
			continue
		}
		if len(typeSet) > 0 && !typeSet[e.Type] {
			continue
		}
		if p.Provider != "" && len(providerSet) > 0 && providerSet[e.Type] && e.Provider() != p.Provider {
			continue
		}
		if p.Search != "" && !matchesSearch(e, p.Search) {
			continue
		}
		if p.CursorCreated != nil && p.CursorID != "" {
			if !beforeCursor(e, *p.CursorCreated, p.CursorID) {
				continue
			}
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// CountByType mirrors the repository's windowed per-type counts.
func (m *MemStore) CountByType(ctx context.Context, orgID string, from, to time.Time) (map[taxonomy.EventType]int64, error) {
	m.count("count_by_type")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["count_by_type"]; err != nil {
		return nil, err
	}
	out := make(map[taxonomy.EventType]int64)
	for _, e := range m.events {
		if e.OrgID == orgID && inWindow(e.CreatedAt, from, to) {
			out[e.Type]++
		}
	}
	return out, nil
}

// CountByProvider mirrors the repository's connector provider breakdown.
func (m *MemStore) CountByProvider(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (map[string]int64, error) {
	m.count("count_by_provider")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["count_by_provider"]; err != nil {
		return nil, err
	}
	typeSet := toSet(types)
	out := make(map[string]int64)
	for _, e := range m.events {
		if e.OrgID == orgID && inWindow(e.CreatedAt, from, to) && typeSet[e.Type] {
			out[e.Provider()]++
		}
	}
	return out, nil
}

// CountDistinctDocuments mirrors the repository's set-union document count.
func (m *MemStore) CountDistinctDocuments(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (int64, error) {
	m.count("distinct_docs")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["distinct_docs"]; err != nil {
		return 0, err
	}
	typeSet := toSet(types)
	seen := make(map[string]bool)
	for _, e := range m.events {
		if e.OrgID == orgID && inWindow(e.CreatedAt, from, to) && typeSet[e.Type] && e.DocumentID != nil {
			seen[*e.DocumentID] = true
		}
	}
	return int64(len(seen)), nil
}

// CountDailyByType mirrors the repository's sparse per-day, per-type counts.
func (m *MemStore) CountDailyByType(ctx context.Context, orgID string, from, to time.Time) ([]repository.DailyTypeCount, error) {
	m.count("daily")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["daily"]; err != nil {
		return nil, err
	}
	type key struct {
		day time.Time
		typ taxonomy.EventType
	}
	counts := make(map[key]int64)
	for _, e := range m.events {
		if e.OrgID == orgID && inWindow(e.CreatedAt, from, to) {
			day := e.CreatedAt.UTC().Truncate(24 * time.Hour)
			counts[key{day, e.Type}]++
		}
	}
	out := make([]repository.DailyTypeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, repository.DailyTypeCount{Day: k.day, Type: k.typ, Count: n})
	}
	return out, nil
}

// CountDecks mirrors the deck feature table aggregate.
func (m *MemStore) CountDecks(ctx context.Context, orgID string, from, to time.Time) (int64, error) {
	m.count("decks")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.QueryErrs["decks"]; err != nil {
		return 0, err
	}
	var n int64
	for _, at := range m.decks[orgID] {
		if inWindow(at, from, to) {
			n++
		}
	}
	return n, nil
}

func toSet(types []taxonomy.EventType) map[taxonomy.EventType]bool {
	if len(types) == 0 {
		return nil
	}
	out := make(map[taxonomy.EventType]bool, len(types))
	for _, t := range types {
		out[t] = true
	}
	return out
}

func inWindow(at, from, to time.Time) bool {
	return !at.Before(from) && !at.After(to)
}

func matchesSearch(e models.ActivityEvent, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(string(e.Type)), needle) {
		return true
	}
	if e.Context != nil {
		if data, err := json.Marshal(e.Context); err == nil {
			return strings.Contains(strings.ToLower(string(data)), needle)
		}
	}
	return false
}

func beforeCursor(e models.ActivityEvent, createdAt time.Time, id string) bool {
	if e.CreatedAt.Before(createdAt) {
		return true
	}
	return e.CreatedAt.Equal(createdAt) && e.ID < id
}
