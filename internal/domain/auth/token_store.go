package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored, hashed refresh token. The raw token never
// touches the database.
type RefreshToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// TokenStore persists refresh tokens. Rotation deletes the presented
// token and inserts its replacement.
type TokenStore interface {
	CreateToken(ctx context.Context, token *RefreshToken) error
	GetTokenByHash(ctx context.Context, hash string) (*RefreshToken, error)
	DeleteToken(ctx context.Context, hash string) error
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}
