package domain

import "time"

// Role is the enumerated authorization level carried by a session token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the subject a session token is issued for.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// TokenPayload is the decoded content of a verified session token.
type TokenPayload struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
