package auth

import (
	"testing"
	"time"
)

func testJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:        secret,
		Expiry:        15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "uni-portal-test",
	}
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager(testJWTConfig("test-secret"))

	token, jti, err := manager.GenerateAccessToken(42, "student@example.edu", "student", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "student" || claims.TokenType != TokenTypeAccess {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager(testJWTConfig("secret-a"))
	verifier := NewJWTManager(testJWTConfig("secret-b"))

	token, _, err := signer.GenerateRefreshToken(1, "u@example.edu", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateToken with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenCarriesType(t *testing.T) {
	manager := NewJWTManager(testJWTConfig("test-secret"))

	token, _, err := manager.GenerateRefreshToken(7, "staff@example.edu", "staff", 2)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TokenTypeRefresh)
	}
	if claims.TokenVersion != 2 {
		t.Errorf("TokenVersion = %d, want 2", claims.TokenVersion)
	}
}

func TestGetTokenExpiry(t *testing.T) {
	manager := NewJWTManager(testJWTConfig("test-secret"))

	token, _, err := manager.GenerateAccessToken(1, "u@example.edu", "student", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	expiry, err := manager.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("GetTokenExpiry: %v", err)
	}

	want := time.Now().Add(15 * time.Minute)
	if diff := expiry.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry %v too far from expected %v", expiry, want)
	}
}
