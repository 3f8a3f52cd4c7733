package realtime

type SSEEvent string

const (
	SSEEventSessionStarted   SSEEvent = "SessionStarted"
	SSEEventSessionUpdated   SSEEvent = "SessionUpdated"
	SSEEventSessionEnded     SSEEvent = "SessionEnded"
	SSEEventProgressUpdated  SSEEvent = "ProgressUpdated"
	SSEEventPreferencesSaved SSEEvent = "PreferencesSaved"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
