package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

// dummyHash is a valid bcrypt digest compared against when no account matches
// a login, so the failure path costs the same as a wrong-password check.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UseCase owns credential verification, opaque token issuance and the guest
// account lifecycle.
type UseCase struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cache  repository.TokenCache
	logger *zap.Logger
}

func New(users repository.UserRepository, tokens repository.TokenRepository, cache repository.TokenCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tokens: tokens,
		cache:  cache,
		logger: logger,
	}
}

// Session is the result of a successful authentication: the reusable opaque
// token plus a summary of the account it belongs to.
type Session struct {
	Token    string
	UserID   string
	Username string
	Email    string
	IsGuest  bool
}

// Register creates a full account with its profile and initial token in one
// transaction. Validation failures report per-field messages.
func (uc *UseCase) Register(ctx context.Context, username, email, password, repeatedPassword string) (*Session, error) {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "Username is required"
	}
	if email == "" {
		fields["email"] = "Email is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	} else if password != repeatedPassword {
		fields["password"] = "Passwords do not match"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if exists, err := uc.users.EmailExists(ctx, email); err != nil {
		return nil, err
	} else if exists {
		fields["email"] = "Email already exists"
	}
	if exists, err := uc.users.UsernameExists(ctx, username); err != nil {
		return nil, err
	} else if exists {
		fields["username"] = "Username already exists"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Profile:      &domain.UserProfile{IsGuest: false},
	}
	token := &domain.AuthToken{Key: newTokenKey()}

	if err := uc.users.Create(ctx, user, token); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return sessionFor(user, token), nil
}

// Authenticate verifies a username-or-email login. Both the unknown-account
// and wrong-password paths fail with the same error after a comparable amount
// of hashing work.
func (uc *UseCase) Authenticate(ctx context.Context, login, password string) (*Session, error) {
	user, err := uc.users.GetByLogin(ctx, login)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.GetOrCreate(ctx, user.ID, newTokenKey())
	if err != nil {
		return nil, err
	}
	return sessionFor(user, token), nil
}

// GuestLogin creates an ephemeral account with a random, never-communicated
// password. From here on the guest is authenticated by bearer token only.
func (uc *UseCase) GuestLogin(ctx context.Context) (*Session, error) {
	username := "guest_" + randomSuffix(8)
	email := username + "@example.com"

	hash, err := bcrypt.GenerateFromPassword([]byte(randomSuffix(32)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Profile:      &domain.UserProfile{IsGuest: true},
	}
	token := &domain.AuthToken{Key: newTokenKey()}

	if err := uc.users.Create(ctx, user, token); err != nil {
		return nil, err
	}

	uc.logger.Info("guest account created", zap.String("user_id", user.ID), zap.String("username", username))
	return sessionFor(user, token), nil
}

// GetProfile loads an account with its profile.
func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// DeleteAccount removes the user; the store cascades to profile, contacts,
// tasks and tokens. The cached token entry is dropped eagerly.
func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) error {
	token, err := uc.tokens.GetByUserID(ctx, userID)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return err
	}
	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}
	if uc.cache != nil && token != nil {
		if err := uc.cache.Delete(ctx, token.Key); err != nil {
			uc.logger.Warn("failed to evict cached token", zap.Error(err))
		}
	}
	return nil
}

// CleanupGuests deletes every guest account older than the retention window
// and reports how many were removed.
func (uc *UseCase) CleanupGuests(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	guests, err := uc.users.ListGuestsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, guest := range guests {
		uc.logger.Info("deleting expired guest", zap.String("user_id", guest.ID), zap.String("username", guest.Username))
		if err := uc.DeleteAccount(ctx, guest.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// ResolveToken maps an opaque token key to a user id, consulting the cache
// before the store.
func (uc *UseCase) ResolveToken(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", domain.ErrUnauthorized
	}

	if uc.cache != nil {
		if userID, err := uc.cache.Get(ctx, key); err == nil {
			return userID, nil
		}
	}

	userID, err := uc.tokens.GetUserID(ctx, key)
	if err != nil {
		return "", err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, userID); err != nil {
			uc.logger.Warn("failed to cache token", zap.Error(err))
		}
	}
	return userID, nil
}

func sessionFor(user *domain.User, token *domain.AuthToken) *Session {
	return &Session{
		Token:    token.Key,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsGuest:  user.IsGuest(),
	}
}

// newTokenKey mints a 40-character hex token.
func newTokenKey() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")[:40]
	}
	return hex.EncodeToString(buf)
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	for len(s) < n {
		s += strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return s[:n]
}
