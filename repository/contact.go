package repository

import (
	"context"

	"github.com/joinboard/backend/domain"
)

// ContactRepository persists contacts. All lookups are scoped to the owning
// user; a contact id belonging to another user behaves like a missing row.
type ContactRepository interface {
	GetByID(ctx context.Context, ownerID, id string) (*domain.Contact, error)
	List(ctx context.Context, ownerID string) ([]domain.Contact, error)
	// ListByIDs resolves the subset of ids that exist and belong to ownerID.
	ListByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, ownerID, id string) error
}
