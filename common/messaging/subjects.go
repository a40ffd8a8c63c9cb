package messaging

// Subject constants for the Vaultline message bus.
// Follow the pattern: {domain}.{resource}.{action}
const (
	// Telemetry echo published after a successful activity event insert.
	SubjectActivityEventLogged = "activity.events.logged"

	// Refresh hint published after a fresh (non-cached) card computation,
	// so dashboard gateways can invalidate their own copies.
	SubjectInsightsRefreshed = "insights.metrics.refreshed"
)
