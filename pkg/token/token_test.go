package token

import (
	"strings"
	"testing"
)

func TestGenerateValidateRoundtrip(t *testing.T) {
	m := NewManager("test-secret", 1)

	signed, err := m.Generate("user-123", "alice", "moderator", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(signed)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("user id = %q, want user-123", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("username = %q, want alice", claims.Username)
	}
	if claims.Role != "moderator" {
		t.Fatalf("role = %q, want moderator", claims.Role)
	}
	if claims.IsSuperuser {
		t.Fatal("is_superuser should be false")
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token must carry an expiry")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a", 1).Generate("user-123", "alice", "user", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := NewManager("secret-b", 1).Validate(signed); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", 1)

	signed, err := m.Generate("user-123", "alice", "user", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + ".eyJyb2xlIjoiYWRtaW4ifQ." + parts[2]

	if _, err := m.Validate(tampered); err == nil {
		t.Fatal("tampered payload must be rejected")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", 1)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Validate(tok); err == nil {
			t.Fatalf("malformed token %q must be rejected", tok)
		}
	}
}

func TestNewManagerDefaultsExpiry(t *testing.T) {
	m := NewManager("test-secret", 0)
	if m.expiry <= 0 {
		t.Fatal("non-positive expiry must fall back to a default")
	}
}
