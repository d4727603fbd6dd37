package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/theta/pkg/config"
	"github.com/angelmondragon/theta/pkg/security"
)

func cheapParams() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", cheapParams())
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", cheapParams()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=8,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8,t=1,p=1$!!$a2V5",
	} {
		if _, err := security.VerifyPassword("irrelevant", encoded); err != security.ErrInvalidHash {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	cfg := cheapParams()
	hash, err := security.HashPassword("pw", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if security.NeedsRehash(hash, cfg) {
		t.Fatal("hash produced with current params should not need rehash")
	}

	stronger := cfg
	stronger.ArgonTime = 3
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("expected rehash when time cost increases")
	}
	if !security.NeedsRehash("garbage", cfg) {
		t.Fatal("malformed hashes always need rehash")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(20)
	if err != nil {
		t.Fatalf("GenerateTempPassword returned error: %v", err)
	}
	if len(pw) != 20 {
		t.Fatalf("expected 20 characters, got %d", len(pw))
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
