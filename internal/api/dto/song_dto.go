package dto

import "github.com/spec-kit/band-vault/internal/domain"

// SongCreatedResponse is returned after an upload.
type SongCreatedResponse struct {
	Message string       `json:"message"`
	Song    *domain.Song `json:"song"`
}

// LyricsRequest replaces a song's lyrics.
type LyricsRequest struct {
	Lyrics string `json:"lyrics"`
}

// MessageCreateRequest posts a chat message. SongID is omitted for band chat.
type MessageCreateRequest struct {
	Text   string  `json:"text"`
	SongID *string `json:"songId"`
}
