// Package writer builds canonical activity event records and appends them to
// the event store. Logging an activity is observability, not a transaction
// participant: feature code that already succeeded on its primary effect
// swallows writer errors via LogBestEffort.
package writer

import (
	"context"
	"sync"
	"time"

	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/messaging"
	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/metrics"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Store is the event store surface the writer depends on.
type Store interface {
	InsertEvent(ctx context.Context, e *models.ActivityEvent) (id string, createdAt time.Time, err error)
}

// ReferenceResolver validates a candidate reference id, returning the verified
// id or nil. It never fails.
type ReferenceResolver interface {
	Resolve(ctx context.Context, table, candidate string) *string
}

// Writer is the single injected dependency every feature handler logs through.
type Writer struct {
	store     Store
	guard     ReferenceResolver
	publisher messaging.Publisher
	logger    *logging.Logger
}

// New creates a Writer. publisher may be nil; the telemetry echo is then skipped.
func New(store Store, guard ReferenceResolver, publisher messaging.Publisher, logger *logging.Logger) *Writer {
	return &Writer{store: store, guard: guard, publisher: publisher, logger: logger}
}

// Log validates input, resolves references, and appends one event row.
// Returns the store-assigned event id.
//
// Reference lookups run concurrently and are all awaited before the insert;
// each resolves independently to a verified id or nil.
func (w *Writer) Log(ctx context.Context, in models.EventInput) (string, error) {
	if in.OrgID == "" {
		return "", faults.Validation("org id is required")
	}
	if !taxonomy.IsKnown(in.Type) {
		return "", faults.Validation("unknown event type %q", in.Type)
	}

	event := models.ActivityEvent{
		OrgID:   in.OrgID,
		Type:    in.Type,
		Context: buildContext(in),
	}
	if in.UserID != "" {
		event.UserID = &in.UserID
	}

	refs := []struct {
		table     string
		candidate string
		target    **string
	}{
		{"documents", in.DocumentID, &event.DocumentID},
		{"document_versions", in.VersionID, &event.VersionID},
		{"work_items", in.WorkItemID, &event.WorkItemID},
		{"share_links", in.ShareLinkID, &event.ShareLinkID},
		{"envelopes", in.EnvelopeID, &event.EnvelopeID},
	}

	var wg sync.WaitGroup
	for _, ref := range refs {
		if ref.candidate == "" {
			continue
		}
		wg.Add(1)
		go func(table, candidate string, target **string) {
			defer wg.Done()
			*target = w.guard.Resolve(ctx, table, candidate)
		}(ref.table, ref.candidate, ref.target)
	}
	wg.Wait()

	id, createdAt, err := w.store.InsertEvent(ctx, &event)
	if err != nil {
		metrics.EventsLogged.WithLabelValues(string(event.Group()), "error").Inc()
		return "", faults.Storage("insert event", err)
	}
	event.ID = id
	event.CreatedAt = createdAt

	metrics.EventsLogged.WithLabelValues(string(event.Group()), "ok").Inc()
	w.echo(ctx, &event, in.DurationMS)
	return id, nil
}

// LogBestEffort logs the event and swallows any failure with a warning.
// This is the call feature handlers make after their primary action succeeded.
func (w *Writer) LogBestEffort(ctx context.Context, in models.EventInput) {
	if _, err := w.Log(ctx, in); err != nil {
		w.logger.WarnContext(ctx, "activity log dropped",
			logging.EventType(string(in.Type)), logging.OrgID(in.OrgID), logging.Error(err))
	}
}

// echo publishes the best-effort telemetry echo. Failure is logged at debug
// and never affects the caller's result. The publish is synchronous with a
// short deadline so no work outlives the request.
func (w *Writer) echo(ctx context.Context, e *models.ActivityEvent, durationMS int64) {
	if w.publisher == nil {
		return
	}
	payload := telemetryEcho{
		Event:      string(e.Type),
		EventID:    e.ID,
		OrgID:      e.OrgID,
		DurationMS: durationMS,
		At:         e.CreatedAt,
	}
	if e.UserID != nil {
		payload.UserID = *e.UserID
	}
	if e.DocumentID != nil {
		payload.DocumentID = *e.DocumentID
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := w.publisher.PublishJSON(ctx, messaging.SubjectActivityEventLogged, payload); err != nil {
		w.logger.DebugContext(ctx, "telemetry echo dropped", logging.Error(err))
	}
}

func buildContext(in models.EventInput) models.Context {
	ctx := models.Context{}
	for k, v := range in.Context {
		ctx[k] = v
	}
	if in.Source != "" {
		ctx[models.CtxSource] = in.Source
	}
	if in.TriggerRoute != "" {
		ctx[models.CtxTriggerRoute] = in.TriggerRoute
	}
	if in.DurationMS > 0 {
		ctx[models.CtxDurationMS] = in.DurationMS
	}
	return ctx
}
