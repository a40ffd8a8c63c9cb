package writer

import "time"

// telemetryEcho is the payload published after a successful insert.
type telemetryEcho struct {
	Event      string    `json:"event"`
	EventID    string    `json:"event_id"`
	OrgID      string    `json:"org_id"`
	UserID     string    `json:"user_id,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	At         time.Time `json:"at"`
}
