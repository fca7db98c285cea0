package models

// ProgressUpdate is broadcast to admin websocket clients while a job runs.
type ProgressUpdate struct {
	JobID    string  `json:"jobId"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Done     bool    `json:"done"`
}

// ContentEvent is broadcast to admin websocket clients after a catalog write.
type ContentEvent struct {
	Event     string      `json:"event"` // content:created, content:updated, content:deleted
	Type      ContentType `json:"type"`
	ID        string      `json:"id"`
	EpisodeID string      `json:"episodeId,omitempty"`
}
