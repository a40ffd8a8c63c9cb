// Package guard validates foreign references best-effort before an event is
// written. One missing row must never abort an otherwise-valid event, so the
// guard converts every failure into a nil reference plus a warning log.
package guard

import (
	"context"
	"time"

	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/internal/metrics"
)

// ExistenceChecker is the single store operation the guard needs.
type ExistenceChecker interface {
	Exists(ctx context.Context, table, id string) (bool, error)
}

// Guard resolves candidate reference ids to verified ids or nil.
type Guard struct {
	store   ExistenceChecker
	logger  *logging.Logger
	timeout time.Duration
}

// New creates a Guard. timeout bounds each individual lookup.
func New(store ExistenceChecker, logger *logging.Logger, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Guard{store: store, logger: logger, timeout: timeout}
}

// Resolve returns &candidate when the row exists, nil otherwise. Lookup
// errors and misses both resolve to nil: a dangling optional reference is
// tolerated, a blocked write is not. This absorbs cross-feature races where
// the referenced row is created by a not-yet-committed code path.
func (g *Guard) Resolve(ctx context.Context, table, candidate string) *string {
	if candidate == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	found, err := g.store.Exists(ctx, table, candidate)
	if err != nil {
		metrics.ReferenceDrops.Inc()
		g.logger.WarnContext(ctx, "reference lookup failed, dropping reference",
			"table", table, "candidate", candidate, logging.Error(err))
		return nil
	}
	if !found {
		metrics.ReferenceDrops.Inc()
		g.logger.WarnContext(ctx, "reference target not found, dropping reference",
			"table", table, "candidate", candidate)
		return nil
	}
	return &candidate
}
