package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/joinboard/backend/domain"
)

type fakeContactRepo struct {
	contacts map[string]domain.Contact
	nextID   int
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[string]domain.Contact{}}
}

func (r *fakeContactRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, domain.ErrContactNotFound
	}
	return &c, nil
}

func (r *fakeContactRepo) List(_ context.Context, ownerID string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) ListByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, id := range ids {
		if c, ok := r.contacts[id]; ok && c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) (*domain.Contact, error) {
	r.nextID++
	contact.ID = fmt.Sprintf("contact-%d", r.nextID)
	r.contacts[contact.ID] = *contact
	return contact, nil
}

func (r *fakeContactRepo) Update(_ context.Context, contact *domain.Contact) error {
	stored, ok := r.contacts[contact.ID]
	if !ok || stored.UserID != contact.UserID {
		return domain.ErrContactNotFound
	}
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, ownerID, id string) error {
	c, ok := r.contacts[id]
	if !ok || c.UserID != ownerID {
		return domain.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func TestCreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("name and email required", func(t *testing.T) {
		uc := New(newFakeContactRepo(), nil)

		_, err := uc.CreateContact(ctx, "owner", CreateInput{})
		fields := domain.FieldsOf(err)
		if fields["name"] == "" || fields["email"] == "" {
			t.Fatalf("expected name and email field errors, got %v", fields)
		}
	})

	t.Run("color defaults when omitted", func(t *testing.T) {
		uc := New(newFakeContactRepo(), nil)

		created, err := uc.CreateContact(ctx, "owner", CreateInput{Name: "Max Mustermann", Email: "max@mail.de"})
		if err != nil {
			t.Fatal(err)
		}
		if created.Color != domain.DefaultContactColor {
			t.Errorf("color = %q, want %q", created.Color, domain.DefaultContactColor)
		}
	})

	t.Run("explicit color kept", func(t *testing.T) {
		uc := New(newFakeContactRepo(), nil)

		created, err := uc.CreateContact(ctx, "owner", CreateInput{Name: "Max", Email: "max@mail.de", Color: "#ff0000"})
		if err != nil {
			t.Fatal(err)
		}
		if created.Color != "#ff0000" {
			t.Errorf("color = %q", created.Color)
		}
	})
}

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*UseCase, *fakeContactRepo, string) {
		t.Helper()
		repo := newFakeContactRepo()
		uc := New(repo, nil)
		created, err := uc.CreateContact(ctx, "owner", CreateInput{Name: "Max Mustermann", Email: "max@mail.de", Phone: "123"})
		if err != nil {
			t.Fatal(err)
		}
		return uc, repo, created.ID
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		uc, _, id := seed(t)

		phone := "456"
		updated, err := uc.UpdateContact(ctx, "owner", id, UpdateInput{Phone: &phone})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Phone != "456" {
			t.Errorf("phone = %q", updated.Phone)
		}
		if updated.Name != "Max Mustermann" || updated.Email != "max@mail.de" {
			t.Errorf("untouched fields changed: %+v", updated)
		}
	})

	t.Run("cannot blank out required fields", func(t *testing.T) {
		uc, repo, id := seed(t)

		empty := ""
		_, err := uc.UpdateContact(ctx, "owner", id, UpdateInput{Name: &empty})
		if fields := domain.FieldsOf(err); fields["name"] == "" {
			t.Fatalf("expected name field error, got %v", err)
		}
		if repo.contacts[id].Name != "Max Mustermann" {
			t.Error("stored contact must be untouched after a validation failure")
		}
	})

	t.Run("contact of another user not reachable", func(t *testing.T) {
		uc, _, id := seed(t)

		name := "Intruder"
		_, err := uc.UpdateContact(ctx, "intruder", id, UpdateInput{Name: &name})
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			t.Errorf("err = %v, want not found", err)
		}
	})
}

func TestDeleteContact(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContactRepo()
	uc := New(repo, nil)

	created, err := uc.CreateContact(ctx, "owner", CreateInput{Name: "Max", Email: "max@mail.de"})
	if err != nil {
		t.Fatal(err)
	}

	if err := uc.DeleteContact(ctx, "intruder", created.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("cross-user delete err = %v, want not found", err)
	}
	if err := uc.DeleteContact(ctx, "owner", created.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.contacts[created.ID]; ok {
		t.Error("contact must be gone")
	}
}
