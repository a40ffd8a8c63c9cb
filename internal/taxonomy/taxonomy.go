// Package taxonomy defines the closed set of activity event types and the
// type-to-group surjection shared by feed filtering and rollup bucketing.
// The mapping is defined once here so dashboard numbers and feed filters can
// never diverge.
package taxonomy

// EventType is a closed tag identifying what happened. Free text is forbidden;
// unknown types are rejected at the write boundary.
type EventType string

const (
	// Docs
	DocUploaded      EventType = "doc_uploaded"
	DocSavedToVault  EventType = "doc_saved_to_vault"
	DocExported      EventType = "doc_exported"
	AnalyzeCompleted EventType = "analyze_completed"
	DeckGenerated    EventType = "deck_generated"

	// Mono (AI assistant)
	MonoQuery    EventType = "mono_query"
	MonoFeedback EventType = "mono_feedback"

	// Connectors
	ConnectorConnected     EventType = "connector_connected"
	ConnectorSyncCompleted EventType = "connector_sync_completed"
	ConnectorSyncFailed    EventType = "connector_sync_failed"
	ConnectorDisconnected  EventType = "connector_disconnected"

	// Signatures
	SendForSignature  EventType = "send_for_signature"
	EnvelopeCompleted EventType = "envelope_completed"
	EnvelopeDeclined  EventType = "envelope_declined"
	EnvelopeVoided    EventType = "envelope_voided"

	// Sharing
	ShareLinkCreated EventType = "share_link_created"
	ShareLinkViewed  EventType = "share_link_viewed"

	// System
	OrgMemberInvited EventType = "org_member_invited"
	DemoDataSeeded   EventType = "demo_data_seeded"
)

// Group is a coarse category many event types roll up into.
type Group string

const (
	GroupDocs       Group = "docs"
	GroupMono       Group = "mono"
	GroupConnectors Group = "connectors"
	GroupSignatures Group = "signatures"
	GroupSharing    Group = "sharing"
	GroupSystem     Group = "system"
)

// typeGroups is the total surjection from event type to group.
// Every EventType constant above must appear exactly once.
var typeGroups = map[EventType]Group{
	DocUploaded:      GroupDocs,
	DocSavedToVault:  GroupDocs,
	DocExported:      GroupDocs,
	AnalyzeCompleted: GroupDocs,
	DeckGenerated:    GroupDocs,

	MonoQuery:    GroupMono,
	MonoFeedback: GroupMono,

	ConnectorConnected:     GroupConnectors,
	ConnectorSyncCompleted: GroupConnectors,
	ConnectorSyncFailed:    GroupConnectors,
	ConnectorDisconnected:  GroupConnectors,

	SendForSignature:  GroupSignatures,
	EnvelopeCompleted: GroupSignatures,
	EnvelopeDeclined:  GroupSignatures,
	EnvelopeVoided:    GroupSignatures,

	ShareLinkCreated: GroupSharing,
	ShareLinkViewed:  GroupSharing,

	OrgMemberInvited: GroupSystem,
	DemoDataSeeded:   GroupSystem,
}

// IsKnown reports whether t belongs to the closed taxonomy.
func IsKnown(t EventType) bool {
	_, ok := typeGroups[t]
	return ok
}

// GroupOf returns the group an event type belongs to.
// The boolean is false for unknown types, which never reach storage.
func GroupOf(t EventType) (Group, bool) {
	g, ok := typeGroups[t]
	return g, ok
}

// IsKnownGroup reports whether g is a defined group name.
func IsKnownGroup(g Group) bool {
	switch g {
	case GroupDocs, GroupMono, GroupConnectors, GroupSignatures, GroupSharing, GroupSystem:
		return true
	}
	return false
}

// AllTypes returns every event type in the taxonomy. Order is unspecified.
func AllTypes() []EventType {
	out := make([]EventType, 0, len(typeGroups))
	for t := range typeGroups {
		out = append(out, t)
	}
	return out
}

// AllGroups returns every defined group.
func AllGroups() []Group {
	return []Group{GroupDocs, GroupMono, GroupConnectors, GroupSignatures, GroupSharing, GroupSystem}
}

// TypesOf returns the event types belonging to g.
func TypesOf(g Group) []EventType {
	var out []EventType
	for t, tg := range typeGroups {
		if tg == g {
			out = append(out, t)
		}
	}
	return out
}

// TypesOfGroups expands a set of groups into the union of their event types.
// An empty group set means all types.
func TypesOfGroups(groups []Group) []EventType {
	if len(groups) == 0 {
		return AllTypes()
	}
	var out []EventType
	for _, g := range groups {
		out = append(out, TypesOf(g)...)
	}
	return out
}

// DocumentScopedTypes returns the types whose document references count toward
// the "active documents" metric: docs, signatures and sharing activity.
func DocumentScopedTypes() []EventType {
	return TypesOfGroups([]Group{GroupDocs, GroupSignatures, GroupSharing})
}
