package domain

import "time"

// MessageAuthor is the public subset of the user who wrote a message.
type MessageAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is a chat line, either band-global (SongID nil) or attached to a song.
type Message struct {
	ID        string        `json:"id"`
	BandID    string        `json:"bandId"`
	SongID    *string       `json:"songId"`
	UserID    string        `json:"userId"`
	Text      string        `json:"text"`
	User      MessageAuthor `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
}
