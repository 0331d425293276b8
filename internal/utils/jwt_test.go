package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func init() {
	SetJWTSecret("test-secret-key-for-testing")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(1, "student@school.edu", "STUDENT", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateToken_DifferentTokens(t *testing.T) {
	token1, _ := GenerateToken(1, "a@school.edu", "STUDENT", 24)
	token2, _ := GenerateToken(2, "b@school.edu", "PROFESSOR", 24)

	if token1 == token2 {
		t.Error("different users should produce different tokens")
	}
}

func TestParseToken(t *testing.T) {
	userID := uint(42)
	email := "prof@school.edu"
	role := "PROFESSOR"

	token, _ := GenerateToken(userID, email, role, 24)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %d, expected %d", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("Email = %q, expected %q", claims.Email, email)
	}
	if claims.GlobalRole != role {
		t.Errorf("GlobalRole = %q, expected %q", claims.GlobalRole, role)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("ParseToken() should fail for a malformed token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(1, "a@school.edu", "STUDENT", 24)

	SetJWTSecret("a-completely-different-secret")
	defer SetJWTSecret("test-secret-key-for-testing")

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() should fail when the secret changed")
	}
}

func TestParseToken_Expired(t *testing.T) {
	claims := Claims{
		UserID: 7,
		Email:  "late@school.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-for-testing"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() should reject an expired token")
	}
}
