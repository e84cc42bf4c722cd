package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, token *domain.AuthToken) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertUser = `
	INSERT INTO users (id, username, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertUser,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrCodeConflict, "username or email already taken", err)
		}
		return err
	}

	// The profile is written in the same transaction as the user so that an
	// account never exists without one.
	if user.Profile == nil {
		user.Profile = &domain.UserProfile{}
	}
	user.Profile.UserID = user.ID

	const insertProfile = `
	INSERT INTO user_profiles (user_id, is_guest)
	VALUES ($1, $2)
	RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insertProfile,
		user.ID,
		user.Profile.IsGuest,
	).Scan(&user.Profile.CreatedAt); err != nil {
		return err
	}

	if token != nil {
		token.UserID = user.ID
		const insertToken = `
		INSERT INTO auth_tokens (user_id, key)
		VALUES ($1, $2)
		RETURNING created_at
		`
		if err := tx.QueryRow(ctx, insertToken, token.UserID, token.Key).Scan(&token.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at,
	p.is_guest, p.created_at
`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users u
	JOIN user_profiles p ON p.user_id = u.id
	WHERE u.id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	// First match only; ordering keeps the ambiguous username-vs-email case
	// deterministic.
	query := `
	SELECT ` + userColumns + `
	FROM users u
	JOIN user_profiles p ON p.user_id = u.id
	WHERE LOWER(u.username) = LOWER($1) OR LOWER(u.email) = LOWER($1)
	ORDER BY u.created_at, u.id
	LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`
	var exists bool
	err := r.pool.QueryRow(ctx, query, username).Scan(&exists)
	return exists, err
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListGuestsCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users u
	JOIN user_profiles p ON p.user_id = u.id
	WHERE p.is_guest AND p.created_at < $1
	ORDER BY p.created_at
	`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var profile domain.UserProfile

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
		&profile.IsGuest,
		&profile.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	profile.UserID = user.ID
	user.Profile = &profile
	return &user, nil
}
