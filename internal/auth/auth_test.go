package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signToken(t *testing.T, secret, role string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   "tester",
			ExpiresAt: expires.Unix(),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	v := NewVerifier("sekrit")
	token := signToken(t, "sekrit", RoleEditor, time.Now().Add(time.Hour))

	claims, err := v.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "tester" || claims.Role != RoleEditor {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.CanEdit() {
		t.Fatalf("editor role should be allowed to edit")
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := NewVerifier("sekrit")

	if _, err := v.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	wrongKey := signToken(t, "other-secret", RoleAdmin, time.Now().Add(time.Hour))
	if _, err := v.Verify(wrongKey); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	expired := signToken(t, "sekrit", RoleAdmin, time.Now().Add(-time.Hour))
	if _, err := v.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestViewerCannotEdit(t *testing.T) {
	v := NewVerifier("sekrit")
	token := signToken(t, "sekrit", "viewer", time.Now().Add(time.Hour))

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.CanEdit() {
		t.Fatalf("viewer role must not edit")
	}
}
