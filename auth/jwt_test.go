package auth

import (
	"testing"
	"time"

	"trolleyseal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.AppUser{ID: "user-1", Name: "Ops Staff", Email: "ops@example.com"}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Name != user.Name || claims.Email != user.Email {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&models.AppUser{ID: "user-1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should fail validation")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, err := m.GenerateToken(&models.AppUser{ID: "user-1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expired token should fail validation")
	}
}

func TestExtractToken(t *testing.T) {
	if _, err := ExtractToken(""); err == nil {
		t.Error("empty header should error")
	}
	if _, err := ExtractToken("Basic abc"); err == nil {
		t.Error("non-bearer header should error")
	}
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("token = %q, err = %v", token, err)
	}
}
