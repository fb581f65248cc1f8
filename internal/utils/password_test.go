package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordAndVerify(t *testing.T) {
	password := "fut5al-time!"

	hash, err := HashPassword(password, 4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hash == "" || hash == password {
		t.Fatal("expected a non-empty hash distinct from the password")
	}

	if !VerifyPassword(hash, password) {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected password mismatch to fail")
	}
}

func TestHashPasswordClampsOutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("secret", 99)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost of generated hash: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, cost)
	}
	if !VerifyPassword(hash, "secret") {
		t.Fatal("expected password to verify")
	}
}

func TestVerifyPasswordWithInvalidHash(t *testing.T) {
	if VerifyPassword("not-a-valid-hash", "password") {
		t.Fatal("expected invalid hash to fail verification")
	}
}
