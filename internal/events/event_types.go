package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn  EventType = "user_logged_in"
	EventSongCreated   EventType = "song_created"
	EventMessagePosted EventType = "message_posted"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	BandID    string      `json:"band_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SongCreatedPayload payload.
type SongCreatedPayload struct {
	SongID string `json:"song_id"`
	Title  string `json:"title"`
}

// MessagePostedPayload payload.
type MessagePostedPayload struct {
	MessageID   string  `json:"message_id"`
	SongID      *string `json:"song_id,omitempty"`
	BodyPreview string  `json:"body_preview"`
}
