package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTypeBelongsToExactlyOneGroup(t *testing.T) {
	for _, typ := range AllTypes() {
		g, ok := GroupOf(typ)
		require.True(t, ok, "type %q has no group", typ)
		assert.True(t, IsKnownGroup(g), "type %q maps to undefined group %q", typ, g)
	}
}

func TestGroupTypePartition(t *testing.T) {
	// The groups partition the taxonomy: no type appears under two groups,
	// and the union covers every type.
	seen := make(map[EventType]Group)
	total := 0
	for _, g := range AllGroups() {
		for _, typ := range TypesOf(g) {
			prev, dup := seen[typ]
			require.False(t, dup, "type %q in both %q and %q", typ, prev, g)
			seen[typ] = g
			total++
		}
	}
	assert.Equal(t, len(AllTypes()), total)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(DocSavedToVault))
	assert.True(t, IsKnown(ConnectorSyncCompleted))
	assert.False(t, IsKnown(EventType("totally_made_up")))
	assert.False(t, IsKnown(EventType("")))
}

func TestIsKnownGroup(t *testing.T) {
	for _, g := range AllGroups() {
		assert.True(t, IsKnownGroup(g))
	}
	assert.False(t, IsKnownGroup(Group("widgets")))
}

func TestTypesOfGroups(t *testing.T) {
	all := TypesOfGroups(nil)
	assert.Len(t, all, len(AllTypes()), "empty group set means all types")

	docs := TypesOfGroups([]Group{GroupDocs})
	assert.ElementsMatch(t, TypesOf(GroupDocs), docs)

	both := TypesOfGroups([]Group{GroupDocs, GroupMono})
	assert.Len(t, both, len(TypesOf(GroupDocs))+len(TypesOf(GroupMono)))
}

func TestDocumentScopedTypes(t *testing.T) {
	scoped := make(map[EventType]bool)
	for _, typ := range DocumentScopedTypes() {
		scoped[typ] = true
	}

	assert.True(t, scoped[DocSavedToVault])
	assert.True(t, scoped[SendForSignature])
	assert.True(t, scoped[ShareLinkCreated])
	assert.False(t, scoped[ConnectorSyncCompleted])
	assert.False(t, scoped[MonoQuery])
}
