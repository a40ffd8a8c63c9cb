package writer

import (
	"context"

	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

// Typed convenience wrappers per well-known event type. Each fixes the type
// and its characteristic fields; the core Log contract is unchanged.

// LogDocSavedToVault records a document being saved into the vault.
func (w *Writer) LogDocSavedToVault(ctx context.Context, orgID, userID, documentID, versionID, source string) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		UserID:     userID,
		Type:       taxonomy.DocSavedToVault,
		DocumentID: documentID,
		VersionID:  versionID,
		Source:     source,
	})
}

// LogAnalyzeCompleted records a finished AI analysis over a document.
func (w *Writer) LogAnalyzeCompleted(ctx context.Context, orgID, userID, documentID, model string, durationMS int64) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		UserID:     userID,
		Type:       taxonomy.AnalyzeCompleted,
		DocumentID: documentID,
		DurationMS: durationMS,
		Context:    models.Context{"model": model},
	})
}

// LogSendForSignature records an envelope being sent to recipients.
func (w *Writer) LogSendForSignature(ctx context.Context, orgID, userID, documentID, envelopeID string, recipients int) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		UserID:     userID,
		Type:       taxonomy.SendForSignature,
		DocumentID: documentID,
		EnvelopeID: envelopeID,
		Context:    models.Context{"recipients": recipients},
	})
}

// LogMonoQuery records one assistant chat question.
func (w *Writer) LogMonoQuery(ctx context.Context, orgID, userID, workItemID string, durationMS int64) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		UserID:     userID,
		Type:       taxonomy.MonoQuery,
		WorkItemID: workItemID,
		DurationMS: durationMS,
	})
}

// LogConnectorSyncCompleted records a finished connector sync run.
func (w *Writer) LogConnectorSyncCompleted(ctx context.Context, orgID, provider string, itemsSynced int, durationMS int64) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		Type:       taxonomy.ConnectorSyncCompleted,
		DurationMS: durationMS,
		Context: models.Context{
			models.CtxProvider: provider,
			"items_synced":     itemsSynced,
		},
	})
}

// LogShareLinkCreated records a share link being minted for a document.
func (w *Writer) LogShareLinkCreated(ctx context.Context, orgID, userID, documentID, shareLinkID string) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:       orgID,
		UserID:      userID,
		Type:        taxonomy.ShareLinkCreated,
		DocumentID:  documentID,
		ShareLinkID: shareLinkID,
	})
}

// LogDeckGenerated records an AI-generated deck over a source document.
func (w *Writer) LogDeckGenerated(ctx context.Context, orgID, userID, documentID string, durationMS int64) (string, error) {
	return w.Log(ctx, models.EventInput{
		OrgID:      orgID,
		UserID:     userID,
		Type:       taxonomy.DeckGenerated,
		DocumentID: documentID,
		DurationMS: durationMS,
	})
}
