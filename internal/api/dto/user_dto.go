package dto

import "github.com/spec-kit/band-vault/internal/domain"

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

// MessageResponse carries a bare message, optionally timestamped.
type MessageResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// VerificationResponse is the body of the whoami probe. User is null when
// the caller is not authenticated.
type VerificationResponse struct {
	User    *domain.PublicUser `json:"user"`
	Message string             `json:"message,omitempty"`
}
