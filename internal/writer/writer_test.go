package writer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/messaging"
	"github.com/vaultline/vaultline/internal/faults"
	"github.com/vaultline/vaultline/internal/guard"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/storetest"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

type capturedMessage struct {
	subject string
	data    []byte
}

type capturePublisher struct {
	mu       sync.Mutex
	messages []capturedMessage
	err      error
}

func (p *capturePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, capturedMessage{subject: subject, data: data})
	return nil
}

func (p *capturePublisher) PublishJSON(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, subject, data)
}

func (p *capturePublisher) Close() error { return nil }

func testLogger() *logging.Logger {
	return logging.New(slog.LevelError, "text")
}

func newTestWriter(store *storetest.MemStore, pub messaging.Publisher) *Writer {
	g := guard.New(store, testLogger(), time.Second)
	return New(store, g, pub, testLogger())
}

func TestLogRequiresOrg(t *testing.T) {
	w := newTestWriter(storetest.NewMemStore(), nil)

	_, err := w.Log(context.Background(), models.EventInput{Type: taxonomy.MonoQuery})
	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
}

func TestLogRejectsUnknownType(t *testing.T) {
	w := newTestWriter(storetest.NewMemStore(), nil)

	_, err := w.Log(context.Background(), models.EventInput{
		OrgID: "org-a",
		Type:  taxonomy.EventType("made_up_event"),
	})
	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
}

func TestLogEnrichesContext(t *testing.T) {
	store := storetest.NewMemStore()
	w := newTestWriter(store, nil)

	_, err := w.Log(context.Background(), models.EventInput{
		OrgID:        "org-a",
		UserID:       "user-1",
		Type:         taxonomy.AnalyzeCompleted,
		Source:       "analyzer",
		TriggerRoute: "/documents/analyze",
		DurationMS:   1234,
		Context:      models.Context{"model": "gpt-4o"},
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "analyzer", e.Context[models.CtxSource])
	assert.Equal(t, "/documents/analyze", e.Context[models.CtxTriggerRoute])
	assert.Equal(t, int64(1234), e.Context[models.CtxDurationMS])
	assert.Equal(t, "gpt-4o", e.Context["model"])
	require.NotNil(t, e.UserID)
	assert.Equal(t, "user-1", *e.UserID)
}

func TestLogResolvesReferences(t *testing.T) {
	store := storetest.NewMemStore()
	store.AddReference("documents", "doc-1")
	w := newTestWriter(store, nil)

	// doc-1 exists, env-404 does not: the valid reference is stored
	// unchanged, the dangling one becomes null, and the write succeeds.
	_, err := w.Log(context.Background(), models.EventInput{
		OrgID:      "org-a",
		Type:       taxonomy.SendForSignature,
		DocumentID: "doc-1",
		EnvelopeID: "env-404",
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	require.NotNil(t, events[0].DocumentID)
	assert.Equal(t, "doc-1", *events[0].DocumentID)
	assert.Nil(t, events[0].EnvelopeID)
}

func TestLogStoreFailure(t *testing.T) {
	store := storetest.NewMemStore()
	store.InsertErr = errors.New("disk full")
	pub := &capturePublisher{}
	w := newTestWriter(store, pub)

	_, err := w.Log(context.Background(), models.EventInput{
		OrgID: "org-a",
		Type:  taxonomy.MonoQuery,
	})
	require.Error(t, err)
	assert.True(t, faults.IsStorage(err))
	assert.Empty(t, pub.messages, "no telemetry echo on failed insert")
}

func TestLogEmitsTelemetryEcho(t *testing.T) {
	store := storetest.NewMemStore()
	pub := &capturePublisher{}
	w := newTestWriter(store, pub)

	id, err := w.Log(context.Background(), models.EventInput{
		OrgID:      "org-a",
		UserID:     "user-1",
		Type:       taxonomy.MonoQuery,
		DurationMS: 88,
	})
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, messaging.SubjectActivityEventLogged, pub.messages[0].subject)

	var echo map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.messages[0].data, &echo))
	assert.Equal(t, "mono_query", echo["event"])
	assert.Equal(t, id, echo["event_id"])
	assert.Equal(t, "org-a", echo["org_id"])
}

func TestEchoFailureDoesNotFailLog(t *testing.T) {
	store := storetest.NewMemStore()
	pub := &capturePublisher{err: errors.New("broker down")}
	w := newTestWriter(store, pub)

	_, err := w.Log(context.Background(), models.EventInput{
		OrgID: "org-a",
		Type:  taxonomy.MonoQuery,
	})
	assert.NoError(t, err)
	assert.Len(t, store.Events(), 1)
}

// saveDocument stands in for a feature action that logs after its primary
// effect. Logging failures must never change the action's own result.
func saveDocument(ctx context.Context, w *Writer) (string, error) {
	savedID := "doc-42"
	w.LogBestEffort(ctx, models.EventInput{
		OrgID:      "org-a",
		Type:       taxonomy.DocSavedToVault,
		DocumentID: savedID,
	})
	return savedID, nil
}

func TestLoggingFailureDoesNotAffectFeatureAction(t *testing.T) {
	store := storetest.NewMemStore()
	store.InsertErr = errors.New("store unavailable")
	w := newTestWriter(store, nil)

	id, err := saveDocument(context.Background(), w)
	assert.NoError(t, err)
	assert.Equal(t, "doc-42", id)
}

func TestTypedWrappers(t *testing.T) {
	store := storetest.NewMemStore()
	store.AddReference("documents", "doc-1")
	store.AddReference("envelopes", "env-1")
	w := newTestWriter(store, nil)
	ctx := context.Background()

	_, err := w.LogDocSavedToVault(ctx, "org-a", "user-1", "doc-1", "", "vault")
	require.NoError(t, err)
	_, err = w.LogSendForSignature(ctx, "org-a", "user-1", "doc-1", "env-1", 2)
	require.NoError(t, err)
	_, err = w.LogConnectorSyncCompleted(ctx, "org-a", "google_drive", 17, 950)
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 3)
	assert.Equal(t, taxonomy.DocSavedToVault, events[0].Type)
	assert.Equal(t, taxonomy.SendForSignature, events[1].Type)
	assert.Equal(t, "google_drive", events[2].Provider())
}
