package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/reader"
	"github.com/vaultline/vaultline/internal/storetest"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Feed and metrics views of the same three events must agree with each other.
func TestFeedAndMetricsAgree(t *testing.T) {
	store := storetest.NewMemStore()
	t0 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	saveID := "00000000-0000-4000-8000-000000000001"
	syncID := "00000000-0000-4000-8000-000000000002"
	monoID := "00000000-0000-4000-8000-000000000003"
	store.InsertEventAt(models.ActivityEvent{OrgID: "org-a", Type: taxonomy.DocSavedToVault}, saveID, t0)
	store.InsertEventAt(models.ActivityEvent{
		OrgID:   "org-a",
		Type:    taxonomy.ConnectorSyncCompleted,
		Context: models.Context{models.CtxProvider: "google_drive"},
	}, syncID, t0.Add(time.Hour))
	store.InsertEventAt(models.ActivityEvent{OrgID: "org-a", Type: taxonomy.MonoQuery}, monoID, t0.Add(2*time.Hour))

	r := reader.New(store, reader.Options{})
	a := NewAggregator(store, testLogger(), time.Second)
	w := weekWindow()

	q := models.FeedQuery{OrgID: "org-a", From: w.From, To: w.To, Groups: []taxonomy.Group{taxonomy.GroupDocs}}
	page, err := r.ListEvents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, saveID, page.Items[0].ID)

	m, err := a.ComputeMetrics(context.Background(), "org-a", w)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.GroupTotals[taxonomy.GroupDocs])
	assert.Equal(t, int64(1), m.GroupTotals[taxonomy.GroupConnectors])
	assert.Equal(t, int64(1), m.GroupTotals[taxonomy.GroupMono])
	assert.Equal(t, int64(1), m.SyncsByProvider["google_drive"])

	// Walking the unfiltered feed in pages of two yields all three events,
	// newest first, with no repeats.
	q = models.FeedQuery{OrgID: "org-a", From: w.From, To: w.To, Limit: 2}
	first, err := r.ListEvents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	q.Cursor = *first.NextCursor
	second, err := r.ListEvents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Nil(t, second.NextCursor)

	var ids []string
	for _, e := range append(first.Items, second.Items...) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{monoID, syncID, saveID}, ids)

	// The reader's unfiltered count equals the sum of the metric group totals.
	var sum int64
	for _, n := range m.GroupTotals {
		sum += n
	}
	assert.Equal(t, int64(len(ids)), sum)
}
