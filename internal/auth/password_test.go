package auth

import (
	"errors"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if hash == password {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword(password, hash) {
		t.Error("verification failed for correct password")
	}

	if VerifyPassword("wrongpassword", hash) {
		t.Error("verification should fail for wrong password")
	}
}

func TestHashPassword_EmptyInput(t *testing.T) {
	_, err := HashPassword("")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyPassword_CorruptDigest(t *testing.T) {
	// A corrupt digest fails closed, it never panics or verifies
	if VerifyPassword("anything", "not-a-bcrypt-digest") {
		t.Error("corrupt digest should never verify")
	}

	if VerifyPassword("anything", "") {
		t.Error("empty digest should never verify")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h1 == h2 {
		t.Error("hashing the same password twice should produce different digests")
	}
}
