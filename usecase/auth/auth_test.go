package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joinboard/backend/domain"
)

// fakeUserRepo mirrors the store's transactional create and delete: the
// initial token is written together with the user, and deleting a user
// cascades to its token.
type fakeUserRepo struct {
	users  map[string]*domain.User
	tokens *fakeTokenRepo
	nextID int
}

func newFakeUserRepo(tokens *fakeTokenRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, tokens: tokens}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User, token *domain.AuthToken) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Profile != nil {
		user.Profile.UserID = user.ID
		if user.Profile.CreatedAt.IsZero() {
			user.Profile.CreatedAt = user.CreatedAt
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	if token != nil {
		token.UserID = user.ID
		r.tokens.byUser[user.ID] = token
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, login) || strings.EqualFold(user.Email, login) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.tokens.byUser, id)
	return nil
}

func (r *fakeUserRepo) ListGuestsCreatedBefore(_ context.Context, cutoff time.Time) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.IsGuest() && user.CreatedAt.Before(cutoff) {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeTokenRepo struct {
	byUser map[string]*domain.AuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byUser: map[string]*domain.AuthToken{}}
}

func (r *fakeTokenRepo) GetOrCreate(_ context.Context, userID, candidateKey string) (*domain.AuthToken, error) {
	if token, ok := r.byUser[userID]; ok {
		return token, nil
	}
	token := &domain.AuthToken{UserID: userID, Key: candidateKey, CreatedAt: time.Now()}
	r.byUser[userID] = token
	return token, nil
}

func (r *fakeTokenRepo) GetByUserID(_ context.Context, userID string) (*domain.AuthToken, error) {
	token, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return token, nil
}

func (r *fakeTokenRepo) GetUserID(_ context.Context, key string) (string, error) {
	for _, token := range r.byUser {
		if token.Key == key {
			return token.UserID, nil
		}
	}
	return "", domain.ErrTokenNotFound
}

type fakeTokenCache struct {
	entries map[string]string
	gets    int
	sets    int
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{entries: map[string]string{}}
}

func (c *fakeTokenCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	if userID, ok := c.entries[key]; ok {
		return userID, nil
	}
	return "", domain.ErrTokenNotFound
}

func (c *fakeTokenCache) Set(_ context.Context, key, userID string) error {
	c.sets++
	c.entries[key] = userID
	return nil
}

func (c *fakeTokenCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func newTestUseCase() (*UseCase, *fakeUserRepo, *fakeTokenRepo, *fakeTokenCache) {
	tokens := newFakeTokenRepo()
	users := newFakeUserRepo(tokens)
	cache := newFakeTokenCache()
	return New(users, tokens, cache, nil), users, tokens, cache
}

func register(t *testing.T, uc *UseCase) *Session {
	t.Helper()
	session, err := uc.Register(context.Background(), "maxm", "max@mail.de", "secret123", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("password mismatch leaves no account behind", func(t *testing.T) {
		uc, users, _, _ := newTestUseCase()

		_, err := uc.Register(ctx, "maxm", "max@mail.de", "secret123", "different")
		if fields := domain.FieldsOf(err); fields["password"] != "Passwords do not match" {
			t.Fatalf("expected password mismatch error, got %v", err)
		}
		if len(users.users) != 0 {
			t.Error("no user may be created on a failed registration")
		}
	})

	t.Run("missing fields reported together", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()

		_, err := uc.Register(ctx, "", "", "", "")
		fields := domain.FieldsOf(err)
		for _, key := range []string{"username", "email", "password"} {
			if fields[key] == "" {
				t.Errorf("expected %s field error, got %v", key, fields)
			}
		}
	})

	t.Run("duplicate email and username reported per field", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()
		register(t, uc)

		_, err := uc.Register(ctx, "maxm", "max@mail.de", "secret123", "secret123")
		fields := domain.FieldsOf(err)
		if fields["email"] != "Email already exists" {
			t.Errorf("email error = %q", fields["email"])
		}
		if fields["username"] != "Username already exists" {
			t.Errorf("username error = %q", fields["username"])
		}
	})

	t.Run("success issues a usable session", func(t *testing.T) {
		uc, users, _, _ := newTestUseCase()

		session := register(t, uc)
		if len(session.Token) != 40 {
			t.Errorf("token length = %d, want 40", len(session.Token))
		}
		if session.IsGuest {
			t.Error("registered account must not be a guest")
		}
		stored := users.users[session.UserID]
		if stored == nil || stored.Profile == nil {
			t.Fatal("account must be stored with its profile")
		}
		if stored.PasswordHash == "secret123" {
			t.Error("password must be stored hashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
			t.Error("stored hash does not verify the original password")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("by username and by email, case-insensitive", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()
		register(t, uc)

		for _, login := range []string{"maxm", "MAXM", "max@mail.de", "MAX@MAIL.DE"} {
			t.Run(login, func(t *testing.T) {
				session, err := uc.Authenticate(ctx, login, "secret123")
				if err != nil {
					t.Fatalf("login %q failed: %v", login, err)
				}
				if session.Username != "maxm" {
					t.Errorf("username = %q", session.Username)
				}
			})
		}
	})

	t.Run("unknown account and wrong password fail identically", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()
		register(t, uc)

		_, unknownErr := uc.Authenticate(ctx, "nobody", "secret123")
		_, wrongErr := uc.Authenticate(ctx, "maxm", "wrong")
		if unknownErr != domain.ErrInvalidCredentials {
			t.Errorf("unknown account err = %v", unknownErr)
		}
		if wrongErr != domain.ErrInvalidCredentials {
			t.Errorf("wrong password err = %v", wrongErr)
		}
	})

	t.Run("token is reused across logins", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()
		first := register(t, uc)

		second, err := uc.Authenticate(ctx, "maxm", "secret123")
		if err != nil {
			t.Fatal(err)
		}
		third, err := uc.Authenticate(ctx, "max@mail.de", "secret123")
		if err != nil {
			t.Fatal(err)
		}
		if second.Token != first.Token || third.Token != first.Token {
			t.Errorf("tokens differ: %q %q %q", first.Token, second.Token, third.Token)
		}
	})
}

func TestGuestLogin(t *testing.T) {
	uc, users, _, _ := newTestUseCase()

	session, err := uc.GuestLogin(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(session.Username, "guest_") || len(session.Username) != len("guest_")+8 {
		t.Errorf("username = %q, want guest_ plus 8 characters", session.Username)
	}
	if session.Email != session.Username+"@example.com" {
		t.Errorf("email = %q", session.Email)
	}
	if !session.IsGuest {
		t.Error("guest session must be flagged")
	}
	if !users.users[session.UserID].IsGuest() {
		t.Error("stored account must carry a guest profile")
	}
}

func TestCleanupGuests(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newTestUseCase()

	old, err := uc.GuestLogin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	users.users[old.UserID].CreatedAt = time.Now().Add(-8 * 24 * time.Hour)

	fresh, err := uc.GuestLogin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	users.users[fresh.UserID].CreatedAt = time.Now().Add(-24 * time.Hour)

	regular := register(t, uc)
	users.users[regular.UserID].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	deleted, err := uc.CleanupGuests(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok := users.users[old.UserID]; ok {
		t.Error("expired guest must be removed")
	}
	if _, ok := users.users[fresh.UserID]; !ok {
		t.Error("guest inside the retention window must survive")
	}
	if _, ok := users.users[regular.UserID]; !ok {
		t.Error("registered accounts are never reaped")
	}
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	t.Run("miss fills the cache, hit skips the store", func(t *testing.T) {
		uc, _, _, cache := newTestUseCase()
		session := register(t, uc)

		userID, err := uc.ResolveToken(ctx, session.Token)
		if err != nil {
			t.Fatal(err)
		}
		if userID != session.UserID {
			t.Errorf("userID = %q, want %q", userID, session.UserID)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}

		if _, err := uc.ResolveToken(ctx, session.Token); err != nil {
			t.Fatal(err)
		}
		if cache.sets != 1 {
			t.Error("a cache hit must not write the cache again")
		}
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		uc, _, _, _ := newTestUseCase()
		if _, err := uc.ResolveToken(ctx, "deadbeef"); err == nil {
			t.Error("expected an error for an unknown token")
		}
	})

	t.Run("empty token rejected without lookups", func(t *testing.T) {
		uc, _, _, cache := newTestUseCase()
		if _, err := uc.ResolveToken(ctx, ""); err == nil {
			t.Error("expected an error for an empty token")
		}
		if cache.gets != 0 {
			t.Error("empty tokens must not reach the cache")
		}
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	uc, users, _, cache := newTestUseCase()
	session := register(t, uc)

	if _, err := uc.ResolveToken(ctx, session.Token); err != nil {
		t.Fatal(err)
	}

	if err := uc.DeleteAccount(ctx, session.UserID); err != nil {
		t.Fatal(err)
	}
	if _, ok := users.users[session.UserID]; ok {
		t.Error("account must be gone")
	}
	if _, ok := cache.entries[session.Token]; ok {
		t.Error("cached token must be evicted")
	}
}
