package domain

import "time"

// Band is the tenant grouping users, songs and messages.
type Band struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
