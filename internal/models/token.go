package models

import (
	"time"
)

const (
	TokenTypeBearer = "bearer"

	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

// Persisted refresh token record
// Raw token is never stored, only its hash
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Token pair returned to the user on authentication
type TokenPair struct {
	TokenType        string
	Access           string
	Refresh          string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

// User together with freshly issued tokens
type Session struct {
	User   User
	Tokens TokenPair
}
