package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khinezaw/shwezin/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "counter-secret"

	token, err := GenerateToken(secret, 3, "thiri", model.RoleManager)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 3 || claims.Username != "thiri" || claims.Role != model.RoleManager {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a JTI for revocation")
	}
	if claims.Issuer != Issuer {
		t.Errorf("expected issuer %q, got %q", Issuer, claims.Issuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", 1, "thiri", model.RoleAdmin)

	if _, err := ValidateToken("secret2", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestValidateTokenForeignIssuer(t *testing.T) {
	// A token signed with our secret but minted elsewhere must not pass.
	secret := "counter-secret"
	foreign := Claims{
		UserID:   1,
		Username: "thiri",
		Role:     model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ID:        "abc123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, foreign).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ValidateToken(secret, token); err == nil {
		t.Error("expected error for foreign issuer")
	}
}

func TestValidateTokenRequiresExpiry(t *testing.T) {
	secret := "counter-secret"
	eternal := Claims{
		UserID:   1,
		Username: "thiri",
		Role:     model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: Issuer,
			ID:     "abc123",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, eternal).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ValidateToken(secret, token); err == nil {
		t.Error("expected error for token without expiry")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "counter-secret"
	token, _ := GenerateToken(secret, 1, "thiri", model.RoleUser)
	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	diff := time.Until(claims.ExpiresAt.Time) - TokenExpiry
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
