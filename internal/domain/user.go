package domain

import "time"

// User is a band member able to sign in.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	BandID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the token subject for the user. The password hash is never part of it.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// PublicUser is the user representation safe to return to clients.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips private fields from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicFromPayload rebuilds the public user from token claims alone. The
// token does not carry timestamps, so both are set to the issue time.
func PublicFromPayload(p *TokenPayload) PublicUser {
	return PublicUser{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		CreatedAt: p.IssuedAt,
		UpdatedAt: p.IssuedAt,
	}
}
