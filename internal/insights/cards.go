package insights

import (
	"context"
	"sort"
	"time"

	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/messaging"
	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/metrics"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// FeatureStore exposes the feature-owned aggregates cards compose with.
type FeatureStore interface {
	CountDecks(ctx context.Context, orgID string, from, to time.Time) (int64, error)
}

// CardProvider derives a small ranked set of highlight cards for a selectable
// range. It is a thin composition layer: group counting is delegated to the
// Aggregator, never duplicated here.
type CardProvider struct {
	aggregator *Aggregator
	features   FeatureStore
	cache      CardCache
	cacheTTL   time.Duration
	publisher  messaging.Publisher
	logger     *logging.Logger
	now        func() time.Time
}

// NewCardProvider creates a CardProvider. cache may be nil, which disables
// caching (every call recomputes). publisher may be nil; the refresh hint is
// then skipped.
func NewCardProvider(aggregator *Aggregator, features FeatureStore, cache CardCache, cacheTTL time.Duration, publisher messaging.Publisher, logger *logging.Logger) *CardProvider {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &CardProvider{
		aggregator: aggregator,
		features:   features,
		cache:      cache,
		cacheTTL:   cacheTTL,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

const maxCards = 5

// ComputeCards returns the ranked highlight cards for the caller's org.
// Cards are supplementary content: an unauthenticated caller gets an empty
// set, not an error.
func (p *CardProvider) ComputeCards(ctx context.Context, principal models.Principal, r models.CardRange) ([]models.Card, error) {
	if principal.OrgID == "" {
		return []models.Card{}, nil
	}
	lookback, ok := r.Duration()
	if !ok {
		return nil, faults.Validation("unknown range %q", r)
	}

	key := cardCacheKey(principal.OrgID, r)
	if p.cache != nil {
		if cards, hit := p.cache.Get(ctx, key); hit {
			metrics.CardCacheHits.WithLabelValues("hit").Inc()
			return cards, nil
		}
		metrics.CardCacheHits.WithLabelValues("miss").Inc()
	}

	now := p.now()
	window := models.Window{From: now.Add(-lookback), To: now}

	m, err := p.aggregator.ComputeMetrics(ctx, principal.OrgID, window)
	if err != nil {
		return nil, err
	}

	period := string(r)
	cards := []models.Card{
		{ID: "docs-activity", Title: "Document activity", Value: m.GroupTotals[taxonomy.GroupDocs], Period: period, Kind: "count", CTA: "/documents"},
		{ID: "mono-questions", Title: "Mono questions answered", Value: m.GroupTotals[taxonomy.GroupMono], Period: period, Kind: "count", CTA: "/mono"},
		{ID: "signatures-sent", Title: "Signature activity", Value: m.GroupTotals[taxonomy.GroupSignatures], Period: period, Kind: "count", CTA: "/signatures"},
		{ID: "connector-syncs", Title: "Connector syncs", Value: m.GroupTotals[taxonomy.GroupConnectors], Period: period, Kind: "count", CTA: "/connectors"},
		{ID: "active-documents", Title: "Active documents", Value: m.ActiveDocuments, Period: period, Kind: "unique"},
	}

	// Deck counts live in the deck feature's table, not the event log.
	decks, err := p.features.CountDecks(ctx, principal.OrgID, window.From, window.To)
	if err != nil {
		p.logger.WarnContext(ctx, "deck count unavailable, card skipped",
			logging.OrgID(principal.OrgID), logging.Error(err))
	} else {
		cards = append(cards, models.Card{
			ID: "decks-generated", Title: "Decks generated", Value: decks,
			Period: period, Kind: "count", CTA: "/decks",
		})
	}

	cards = rankCards(cards)
	if p.cache != nil {
		p.cache.Set(ctx, key, cards, p.cacheTTL)
	}
	p.publishRefreshHint(ctx, principal.OrgID, r, now)
	return cards, nil
}

// publishRefreshHint tells downstream dashboard caches that fresh numbers
// exist for this org and range. Best effort; cache hits never publish.
func (p *CardProvider) publishRefreshHint(ctx context.Context, orgID string, r models.CardRange, at time.Time) {
	if p.publisher == nil {
		return
	}
	hint := struct {
		OrgID string    `json:"org_id"`
		Range string    `json:"range"`
		At    time.Time `json:"at"`
	}{OrgID: orgID, Range: string(r), At: at}
	if err := p.publisher.PublishJSON(ctx, messaging.SubjectInsightsRefreshed, hint); err != nil {
		p.logger.DebugContext(ctx, "refresh hint dropped", logging.Error(err))
	}
}

// rankCards orders by value descending (stable on the original order for
// ties) and keeps the top few - highlights, not a full metrics dump.
func rankCards(cards []models.Card) []models.Card {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Value > cards[j].Value
	})
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	return cards
}
