package auth_test

import (
	"testing"
	"time"

	"github.com/geocoder89/placeshare/internal/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	raw, err := m.GenerateAccessToken("u1", "max@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)

	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "u1" || claims.Email != "max@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	if claims.JTI == "" {
		t.Fatal("token is missing a jti")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Minute)
	verifier := auth.NewManager("secret-b", time.Minute)

	raw, err := issuer.GenerateAccessToken("u1", "max@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = verifier.VerifyAccessToken(raw)

	if err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	raw, err := m.GenerateAccessToken("u1", "max@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = m.VerifyAccessToken(raw)

	if err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Minute)

	_, err := m.VerifyAccessToken("not.a.token")

	if err == nil {
		t.Fatal("garbage must not verify")
	}
}
