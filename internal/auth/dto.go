package auth

import (
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
)

// LoginInput carries a credential login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is an issued access/refresh token set.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}
