package dto

import "github.com/questforge/quest-board/internal/domain"

// LoginRequest payload for login endpoints.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest payload for refresh endpoints when no cookie is present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest payload for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PassportResponse wraps an issued token pair.
type PassportResponse struct {
	Passport domain.Passport `json:"passport"`
}
