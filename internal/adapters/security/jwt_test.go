package security

import (
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/ports"
)

func TestEphemeralSignAndVerify(t *testing.T) {
	t.Parallel()
	verifier, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	raw, err := verifier.Sign(ports.AuthClaims{
		UserID:    userID,
		Email:     "alice@example.com",
		Role:      "ADMIN",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := verifier.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" || claims.Role != "ADMIN" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	verifier, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	// Past the 30s validation leeway.
	now := time.Now().UTC()
	raw, err := verifier.Sign(ports.AuthClaims{
		UserID:    uuid.New(),
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.ParseAndValidate(raw); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestRejectsForeignSignature(t *testing.T) {
	t.Parallel()
	signer, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	verifier, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	now := time.Now().UTC()
	raw, err := signer.Sign(ports.AuthClaims{UserID: uuid.New(), IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.ParseAndValidate(raw); err == nil {
		t.Fatal("expected token from a different key to be rejected")
	}
}

func TestRejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()
	verifier, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := verifier.ParseAndValidate(raw); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestNewJWTVerifierFromPEM(t *testing.T) {
	t.Parallel()
	signer, err := NewEphemeralVerifier()
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(signer.publicKey)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	verifier, err := NewJWTVerifier(string(pemBytes))
	if err != nil {
		t.Fatalf("new verifier from pem: %v", err)
	}

	now := time.Now().UTC()
	raw, err := signer.Sign(ports.AuthClaims{UserID: uuid.New(), IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.ParseAndValidate(raw); err != nil {
		t.Fatalf("verify with pem-loaded key: %v", err)
	}

	if _, err := NewJWTVerifier(""); err == nil {
		t.Fatal("expected error on empty pem")
	}
	if _, err := verifier.Sign(ports.AuthClaims{}); err == nil {
		t.Fatal("pem-loaded verifier must not sign")
	}
}
