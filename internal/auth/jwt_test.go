package auth_test

import (
	"testing"
	"time"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
)

func TestGenerateAndVerify(t *testing.T) {
	m := auth.NewManager("test-secret", 24*time.Hour)

	token, err := m.GenerateToken(42, "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}

	if claims.Username != "admin" {
		t.Errorf("Username = %q, want %q", claims.Username, "admin")
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected iat and exp to be set")
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

	if ttl != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h", ttl)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateToken(1, "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = m.Verify(token)

	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken(1, "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = verifier.Verify(token)

	if err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(raw); err == nil {
			t.Errorf("Verify(%q) = nil error, want failure", raw)
		}
	}
}
