package security_test

import (
	"testing"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/gabriellgomess/condominio-app-sub002/internal/security"
	"github.com/google/uuid"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", "condominio-app")

	userID := uuid.New()

	token, err := manager.Generate(userID, domain.RoleAdmin, 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("token is empty")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID mismatch: got %v, want %v", claims.UserID, userID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role mismatch: got %v, want %v", claims.Role, domain.RoleAdmin)
	}
	if claims.Issuer != "condominio-app" {
		t.Errorf("issuer mismatch: got %v", claims.Issuer)
	}
}

func TestJWTManager_ValidateExpired(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", "condominio-app")

	token, err := manager.Generate(uuid.New(), domain.RoleResident, -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.Validate(token); err == nil {
		t.Error("expected validation of expired token to fail")
	}
}

func TestJWTManager_ValidateWrongSecret(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", "condominio-app")
	other := security.NewJWTManager("another-secret-key-32-chars!!!!!", "condominio-app")

	token, err := manager.Generate(uuid.New(), domain.RoleResident, 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Error("expected validation with wrong secret to fail")
	}
}
