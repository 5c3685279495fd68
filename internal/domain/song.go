package domain

import "time"

// Song is an uploaded audio track owned by a band.
type Song struct {
	ID        string    `json:"id"`
	BandID    string    `json:"bandId"`
	Title     string    `json:"title"`
	AudioURL  string    `json:"audioUrl"`
	Lyrics    *string   `json:"lyrics"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
