// Package insights computes read-side rollups over the activity event log:
// windowed metrics for the dashboard and ranked highlight cards.
package insights

import (
	"context"
	"sync"
	"time"

	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/metrics"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/repository"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Store is the event store surface the aggregator depends on.
type Store interface {
	Ping(ctx context.Context) error
	CountByType(ctx context.Context, orgID string, from, to time.Time) (map[taxonomy.EventType]int64, error)
	CountByProvider(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (map[string]int64, error)
	CountDistinctDocuments(ctx context.Context, orgID string, from, to time.Time, types []taxonomy.EventType) (int64, error)
	CountDailyByType(ctx context.Context, orgID string, from, to time.Time) ([]repository.DailyTypeCount, error)
}

// Aggregator merges a bounded set of parallel sub-queries into one metrics
// result. A failing sub-query degrades its metric to zero/empty; only an
// unreachable store fails the whole call.
type Aggregator struct {
	store        Store
	logger       *logging.Logger
	queryTimeout time.Duration
}

// NewAggregator creates an Aggregator. queryTimeout bounds each sub-query.
func NewAggregator(store Store, logger *logging.Logger, queryTimeout time.Duration) *Aggregator {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &Aggregator{store: store, logger: logger, queryTimeout: queryTimeout}
}

// ComputeMetrics computes all windowed rollups for one org. Sub-queries run
// concurrently and are all awaited, so wall-clock cost is bounded by the
// slowest one, not their sum.
func (a *Aggregator) ComputeMetrics(ctx context.Context, orgID string, window models.Window) (*models.InsightsMetrics, error) {
	if orgID == "" {
		return nil, faults.Validation("org id is required")
	}
	if window.From.After(window.To) {
		return nil, faults.Validation("window start is after window end")
	}

	// A store-wide outage must fail loudly; a dashboard of silently-zeroed
	// totals is worse than an error banner.
	if err := a.store.Ping(ctx); err != nil {
		return nil, faults.Storage("ping", err)
	}

	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	out := &models.InsightsMetrics{
		Window:          window,
		GroupTotals:     zeroGroupTotals(),
		SyncsByProvider: map[string]int64{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	degrade := func(metric string, err error) {
		metrics.AggregationDegraded.WithLabelValues(metric).Inc()
		a.logger.WarnContext(ctx, "insights sub-query degraded to zero",
			"metric", metric, logging.OrgID(orgID), logging.Error(err))
		mu.Lock()
		out.Degraded = append(out.Degraded, metric)
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
		defer cancel()
		byType, err := a.store.CountByType(qctx, orgID, window.From, window.To)
		if err != nil {
			degrade("group_totals", err)
			return
		}
		totals := foldGroupTotals(byType)
		mu.Lock()
		out.GroupTotals = totals
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
		defer cancel()
		byProvider, err := a.store.CountByProvider(qctx, orgID, window.From, window.To,
			taxonomy.TypesOf(taxonomy.GroupConnectors))
		if err != nil {
			degrade("syncs_by_provider", err)
			return
		}
		mu.Lock()
		out.SyncsByProvider = byProvider
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
		defer cancel()
		// Set union across docs, signatures and sharing activity; a document
		// touched by several event types counts once.
		n, err := a.store.CountDistinctDocuments(qctx, orgID, window.From, window.To,
			taxonomy.DocumentScopedTypes())
		if err != nil {
			degrade("active_documents", err)
			return
		}
		mu.Lock()
		out.ActiveDocuments = n
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
		defer cancel()
		daily, err := a.store.CountDailyByType(qctx, orgID, window.From, window.To)
		if err != nil {
			degrade("daily", err)
			mu.Lock()
			out.Daily = zeroFilledSeries(window, nil)
			mu.Unlock()
			return
		}
		series := zeroFilledSeries(window, daily)
		mu.Lock()
		out.Daily = series
		mu.Unlock()
	}()

	wg.Wait()
	return out, nil
}

// zeroGroupTotals returns every group present with a zero count, so the
// dashboard can tell "no data" from "not loaded".
func zeroGroupTotals() map[taxonomy.Group]int64 {
	out := make(map[taxonomy.Group]int64, len(taxonomy.AllGroups()))
	for _, g := range taxonomy.AllGroups() {
		out[g] = 0
	}
	return out
}

func foldGroupTotals(byType map[taxonomy.EventType]int64) map[taxonomy.Group]int64 {
	out := zeroGroupTotals()
	for t, n := range byType {
		if g, ok := taxonomy.GroupOf(t); ok {
			out[g] += n
		}
	}
	return out
}

// zeroFilledSeries builds one bucket per UTC calendar day across the window,
// including days with no events, so series length always equals window length.
func zeroFilledSeries(window models.Window, daily []repository.DailyTypeCount) []models.DayBucket {
	first := window.From.UTC().Truncate(24 * time.Hour)
	days := window.Days()

	buckets := make([]models.DayBucket, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		day := first.Add(time.Duration(i) * 24 * time.Hour)
		buckets[i] = models.DayBucket{Day: day, Counts: zeroGroupTotals()}
		index[day] = i
	}

	for _, d := range daily {
		day := d.Day.UTC().Truncate(24 * time.Hour)
		i, ok := index[day]
		if !ok {
			continue
		}
		if g, ok := taxonomy.GroupOf(d.Type); ok {
			buckets[i].Counts[g] += d.Count
		}
	}
	return buckets
}
