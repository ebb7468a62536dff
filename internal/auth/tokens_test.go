package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/careerhub/backend/internal/db"
)

func testService() *Service {
	return NewService(nil, "access-secret-for-tests", "refresh-secret-for-tests")
}

func testUser() *db.User {
	return &db.User{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: "alice@x.com",
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	s := testService()
	user := testUser()

	token, err := s.issueAccessToken(user)
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}

	claims, err := s.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("failed to verify freshly issued token: %v", err)
	}

	if claims.UserID != user.ID.String() {
		t.Errorf("expected subject %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, claims.Email)
	}
}

func TestAccessToken_Expired(t *testing.T) {
	s := testService()
	user := testUser()

	token, err := s.signToken(user, -1*time.Minute, s.accessSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = s.VerifyAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	s := testService()
	user := testUser()

	// A refresh token must never verify as an access token; the two
	// classes are signed with different secrets.
	refreshToken, err := s.issueRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}

	_, err = s.VerifyAccessToken(refreshToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	s := testService()

	for _, garbage := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := s.VerifyAccessToken(garbage)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyAccessToken(%q): expected ErrInvalidToken, got %v", garbage, err)
		}
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	s := testService()
	user := testUser()

	token, err := s.issueRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}

	claims, err := s.verifyRefreshToken(token)
	if err != nil {
		t.Fatalf("failed to verify refresh token: %v", err)
	}

	if claims.UserID != user.ID.String() {
		t.Errorf("expected subject %s, got %s", user.ID, claims.UserID)
	}
}

func TestTokens_TamperedSignature(t *testing.T) {
	s := testService()
	user := testUser()

	token, err := s.issueAccessToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := s.VerifyAccessToken(tampered); err == nil {
		t.Error("tampered token should not verify")
	}
}
