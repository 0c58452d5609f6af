package security_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, legacy, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}
	if legacy {
		t.Fatal("fresh argon2id hash reported as legacy")
	}

	ok, _, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordLegacyBcrypt(t *testing.T) {
	legacyHash, err := bcrypt.GenerateFromPassword([]byte("imported-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash: %v", err)
	}

	ok, legacy, err := security.VerifyPassword("imported-password", string(legacyHash))
	if err != nil {
		t.Fatalf("VerifyPassword returned error for bcrypt hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for correct bcrypt password")
	}
	if !legacy {
		t.Fatal("bcrypt hash should report legacy so callers can rehash")
	}

	ok, legacy, err = security.VerifyPassword("wrong-password", string(legacyHash))
	if err != nil {
		t.Fatalf("VerifyPassword returned error for bcrypt mismatch: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect bcrypt password")
	}
	if !legacy {
		t.Fatal("bcrypt mismatch should still report legacy")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashPasswordEmptyPassword(t *testing.T) {
	if _, err := security.HashPassword("", config.PasswordConfig{}); err == nil {
		t.Fatal("expected error for empty password")
	}
}
