package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/domain/models"
)

func newTestVerifier(t *testing.T) (*JWKSVerifier, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	kf := func(*jwt.Token) (any, error) { return &key.PublicKey, nil }
	return newVerifierWithKeyfunc(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func sign(t *testing.T, key *ecdsa.PrivateKey, claims *models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func validClaims() *models.Claims {
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "authenticated",
	}
}

func TestJWKSVerifier_VerifyToken(t *testing.T) {
	verifier, key := newTestVerifier(t)

	claims, err := verifier.VerifyToken(sign(t, key, validClaims()))
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.GetUserID() != "user-1" {
		t.Errorf("GetUserID() = %q, want %q", claims.GetUserID(), "user-1")
	}
}

func TestJWKSVerifier_Rejects(t *testing.T) {
	verifier, key := newTestVerifier(t)
	otherKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSubject := validClaims()
	noSubject.Subject = ""

	anon := validClaims()
	anon.Role = "anon"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	hmacToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", sign(t, key, expired)},
		{"missing subject", sign(t, key, noSubject)},
		{"anonymous role", sign(t, key, anon)},
		{"missing expiry", sign(t, key, noExpiry)},
		{"wrong key", sign(t, otherKey, validClaims())},
		{"disallowed algorithm", hmacToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.VerifyToken(tt.token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrUnauthorized)
			}
		})
	}
}

func TestNewJWTVerifier_EmptyURL(t *testing.T) {
	if _, err := NewJWTVerifier("", slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("NewJWTVerifier() expected error for empty URL")
	}
}
