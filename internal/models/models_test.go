package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vaultline/vaultline/internal/taxonomy"
)

func TestActivityEventGroup(t *testing.T) {
	e := ActivityEvent{Type: taxonomy.ConnectorSyncCompleted}
	assert.Equal(t, taxonomy.GroupConnectors, e.Group())
}

func TestActivityEventProvider(t *testing.T) {
	tests := []struct {
		name     string
		context  Context
		expected string
	}{
		{"provider present", Context{CtxProvider: "google_drive"}, "google_drive"},
		{"provider empty", Context{CtxProvider: ""}, "unknown"},
		{"provider wrong type", Context{CtxProvider: 42}, "unknown"},
		{"no context", nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ActivityEvent{Type: taxonomy.ConnectorSyncCompleted, Context: tt.context}
			assert.Equal(t, tt.expected, e.Provider())
		})
	}
}

func TestWindowDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		window Window
		days   int
	}{
		{"single day", Window{From: day(1), To: day(1)}, 1},
		{"one week", Window{From: day(1), To: day(7)}, 7},
		{"partial days count whole", Window{
			From: time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)}, 2},
		{"inverted", Window{From: day(7), To: day(1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, tt.window.Days())
		})
	}
}

func TestCardRangeDuration(t *testing.T) {
	for r, want := range map[CardRange]time.Duration{
		Range7d:  7 * 24 * time.Hour,
		Range30d: 30 * 24 * time.Hour,
		Range90d: 90 * 24 * time.Hour,
	} {
		d, ok := r.Duration()
		assert.True(t, ok)
		assert.Equal(t, want, d)
	}

	_, ok := CardRange("14d").Duration()
	assert.False(t, ok)
}
