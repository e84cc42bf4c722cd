package repository

import (
	"context"
	"time"

	"github.com/joinboard/backend/domain"
)

// UserRepository persists accounts together with their 1:1 profiles. Create
// writes the user, its profile and the initial auth token in one transaction;
// the profile is an explicit step of account creation, not a store trigger.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, token *domain.AuthToken) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByLogin matches the stored username or email case-insensitively and
	// returns at most one account (deterministic first match).
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Delete removes the user; the store cascades to profile, contacts,
	// tasks and tokens.
	Delete(ctx context.Context, id string) error
	ListGuestsCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.User, error)
}
