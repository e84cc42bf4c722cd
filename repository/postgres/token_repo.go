package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a Postgres-backed implementation of TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) repository.TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID, candidateKey string) (*domain.AuthToken, error) {
	// The per-user primary key makes the insert a no-op when a token already
	// exists, so the first minted token wins for the account's lifetime.
	const insert = `
	INSERT INTO auth_tokens (user_id, key)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, insert, userID, candidateKey); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *tokenRepository) GetByUserID(ctx context.Context, userID string) (*domain.AuthToken, error) {
	const query = `SELECT user_id, key, created_at FROM auth_tokens WHERE user_id = $1`
	var token domain.AuthToken
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&token.UserID, &token.Key, &token.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) GetUserID(ctx context.Context, key string) (string, error) {
	const query = `SELECT user_id FROM auth_tokens WHERE key = $1`
	var userID string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return userID, nil
}
