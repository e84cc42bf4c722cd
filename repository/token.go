package repository

import (
	"context"

	"github.com/joinboard/backend/domain"
)

// TokenRepository persists the opaque per-user auth tokens.
type TokenRepository interface {
	// GetOrCreate returns the user's existing token, inserting candidateKey
	// as a new one only when the user has none yet.
	GetOrCreate(ctx context.Context, userID, candidateKey string) (*domain.AuthToken, error)
	GetByUserID(ctx context.Context, userID string) (*domain.AuthToken, error)
	GetUserID(ctx context.Context, key string) (string, error)
}

// TokenCache is a read-through cache in front of TokenRepository lookups.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, userID string) error
	Delete(ctx context.Context, key string) error
}
