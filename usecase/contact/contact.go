package contact

import (
	"context"

	"go.uber.org/zap"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

// UseCase owns contact CRUD, always scoped to the owning user.
type UseCase struct {
	contacts repository.ContactRepository
	logger   *zap.Logger
}

func New(contacts repository.ContactRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		contacts: contacts,
		logger:   logger,
	}
}

// CreateInput carries the fields for a new contact.
type CreateInput struct {
	Name  string
	Email string
	Phone string
	Color string
}

// UpdateInput carries a partial contact update; nil fields stay unchanged.
type UpdateInput struct {
	Name  *string
	Email *string
	Phone *string
	Color *string
}

func (uc *UseCase) ListContacts(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	return uc.contacts.List(ctx, ownerID)
}

func (uc *UseCase) GetContact(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	return uc.contacts.GetByID(ctx, ownerID, id)
}

func (uc *UseCase) CreateContact(ctx context.Context, ownerID string, in CreateInput) (*domain.Contact, error) {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Name is required"
	}
	if in.Email == "" {
		fields["email"] = "Email is required"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	color := in.Color
	if color == "" {
		color = domain.DefaultContactColor
	}

	return uc.contacts.Create(ctx, &domain.Contact{
		UserID: ownerID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Color:  color,
	})
}

func (uc *UseCase) UpdateContact(ctx context.Context, ownerID, id string, in UpdateInput) (*domain.Contact, error) {
	contact, err := uc.contacts.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		contact.Name = *in.Name
	}
	if in.Email != nil {
		contact.Email = *in.Email
	}
	if in.Phone != nil {
		contact.Phone = *in.Phone
	}
	if in.Color != nil {
		contact.Color = *in.Color
	}

	if contact.Name == "" || contact.Email == "" {
		fields := map[string]string{}
		if contact.Name == "" {
			fields["name"] = "Name is required"
		}
		if contact.Email == "" {
			fields["email"] = "Email is required"
		}
		return nil, domain.NewValidationError(fields)
	}

	if err := uc.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (uc *UseCase) DeleteContact(ctx context.Context, ownerID, id string) error {
	return uc.contacts.Delete(ctx, ownerID, id)
}
