package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a Postgres-backed implementation of ContactRepository.
func NewContactRepository(pool *pgxpool.Pool) repository.ContactRepository {
	return &contactRepository{pool: pool}
}

func (r *contactRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	const query = `
	SELECT id, user_id, name, email, phone, color, created_at, updated_at
	FROM contacts
	WHERE id = $1 AND user_id = $2
	`
	return scanContact(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *contactRepository) List(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	const query = `
	SELECT id, user_id, name, email, phone, color, created_at, updated_at
	FROM contacts
	WHERE user_id = $1
	ORDER BY name, created_at
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *contactRepository) ListByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
	SELECT id, user_id, name, email, phone, color, created_at, updated_at
	FROM contacts
	WHERE user_id = $1 AND id = ANY($2)
	`
	rows, err := r.pool.Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	if contact == nil {
		return nil, domain.ErrInvalidPayload
	}
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.Color == "" {
		contact.Color = domain.DefaultContactColor
	}

	const query = `
	INSERT INTO contacts (id, user_id, name, email, phone, color)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Color,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	if contact == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE contacts
	SET name = $3,
		email = $4,
		phone = $5,
		color = $6,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Color,
	).Scan(&contact.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrContactNotFound
		}
		return err
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var contact domain.Contact
	if err := row.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Color,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func collectContacts(rows pgx.Rows) ([]domain.Contact, error) {
	var contacts []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}
