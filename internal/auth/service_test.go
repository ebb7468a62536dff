package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/careerhub/backend/internal/db"
)

// fakeUserStore is an in-memory UserStore for exercising the service
// without a database.
type fakeUserStore struct {
	users map[uuid.UUID]*db.User
}

func newFakeUserStore(users ...*db.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*db.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *db.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, db.ErrUserNotFound
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	u, ok := s.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	if token == nil {
		u.RefreshToken.Valid = false
		u.RefreshToken.String = ""
	} else {
		u.RefreshToken.Valid = true
		u.RefreshToken.String = *token
	}
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func storedUser(t *testing.T, password string) *db.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &db.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: hash,
	}
}

func TestLogin_ResponseShape(t *testing.T) {
	user := storedUser(t, "hunter2!")
	store := newFakeUserStore(user)
	s := NewService(store, "access-secret-for-tests", "refresh-secret-for-tests")

	result, err := s.Login(context.Background(), "alice@x.com", "hunter2!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal login result: %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("failed to unmarshal login result: %v", err)
	}

	// Identity fields and tokens are siblings at the top level; clients
	// read userId next to accessToken, not under a nested object.
	for _, key := range []string{"userId", "name", "email", "accessToken", "refreshToken", "expiresIn"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("expected top-level key %q in login response, got %s", key, body)
		}
	}
	if _, ok := wire["user"]; ok {
		t.Errorf("login response must not nest identity under \"user\": %s", body)
	}

	var got struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("failed to decode userId: %v", err)
	}
	if got.UserID != user.ID.String() {
		t.Errorf("expected userId %s, got %s", user.ID, got.UserID)
	}
}

func TestLogin_PersistsRefreshToken(t *testing.T) {
	user := storedUser(t, "hunter2!")
	store := newFakeUserStore(user)
	s := NewService(store, "access-secret-for-tests", "refresh-secret-for-tests")

	result, err := s.Login(context.Background(), "alice@x.com", "hunter2!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !user.RefreshToken.Valid || user.RefreshToken.String != result.RefreshToken {
		t.Errorf("login must store the issued refresh token on the identity")
	}
}

func TestRefresh_MatchesStoredToken(t *testing.T) {
	user := storedUser(t, "hunter2!")
	store := newFakeUserStore(user)
	s := NewService(store, "access-secret-for-tests", "refresh-secret-for-tests")

	result, err := s.Login(context.Background(), "alice@x.com", "hunter2!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	accessToken, err := s.Refresh(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh with the stored token failed: %v", err)
	}

	claims, err := s.VerifyAccessToken(accessToken)
	if err != nil {
		t.Fatalf("refreshed access token does not verify: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("expected subject %s, got %s", user.ID, claims.UserID)
	}
}

func TestRefresh_StoredTokenMismatch(t *testing.T) {
	user := storedUser(t, "hunter2!")
	store := newFakeUserStore(user)
	s := NewService(store, "access-secret-for-tests", "refresh-secret-for-tests")

	first, err := s.Login(context.Background(), "alice@x.com", "hunter2!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A later login rotates the stored token; the first session's
	// refresh token still verifies cryptographically but no longer
	// matches the stored value.
	rotated := "rotated-by-a-later-login"
	if err := store.SetRefreshToken(context.Background(), user.ID, &rotated); err != nil {
		t.Fatalf("failed to rotate stored token: %v", err)
	}

	_, err = s.Refresh(context.Background(), first.RefreshToken)
	if !errors.Is(err, ErrRefreshMismatch) {
		t.Errorf("expected ErrRefreshMismatch for a rotated-out token, got %v", err)
	}
}

func TestRefresh_ClearedTokenMismatch(t *testing.T) {
	user := storedUser(t, "hunter2!")
	store := newFakeUserStore(user)
	s := NewService(store, "access-secret-for-tests", "refresh-secret-for-tests")

	result, err := s.Login(context.Background(), "alice@x.com", "hunter2!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := s.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	_, err = s.Refresh(context.Background(), result.RefreshToken)
	if !errors.Is(err, ErrRefreshMismatch) {
		t.Errorf("expected ErrRefreshMismatch after logout, got %v", err)
	}
}
