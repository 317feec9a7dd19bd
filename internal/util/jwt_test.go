package util

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

func testSecret() string {
	return base64.StdEncoding.EncodeToString([]byte("top-secret-signing-key"))
}

func TestJWTManagerGenerateAndParse(t *testing.T) {
	manager, err := NewJWTManager(testSecret(), 30*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}

	principal := &domain.Principal{
		ID:    42,
		Name:  "Dana Driver",
		Email: "dana@example.com",
		Role:  domain.RoleDriver,
	}
	token, expiresAt, err := manager.Generate(principal)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != principal.ID {
		t.Fatalf("expected user id %d, got %d", principal.ID, claims.UserID)
	}
	if claims.Email != principal.Email {
		t.Fatalf("expected email %s, got %s", principal.Email, claims.Email)
	}
	if claims.Role != domain.RoleDriver {
		t.Fatalf("expected role %s, got %s", domain.RoleDriver, claims.Role)
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager, err := NewJWTManager(testSecret(), time.Millisecond)
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}
	token, _, err := manager.Generate(&domain.Principal{ID: 1, Email: "user@example.com", Role: domain.RolePassenger})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}

func TestNewJWTManagerRejectsBadSecret(t *testing.T) {
	if _, err := NewJWTManager("not base64!!", time.Minute); err == nil {
		t.Fatalf("expected error for non-base64 secret")
	}
	if _, err := NewJWTManager("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
