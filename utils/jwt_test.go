package utils

import (
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	os.Setenv("SESSION_SECRET", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

func TestSessionTokenRoundTrip(t *testing.T) {
	sessionID := uuid.New()

	token, err := GenerateSessionToken(sessionID)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Errorf("session id = %s, want %s", claims.SessionID, sessionID)
	}
	if claims.Issuer != "tienda-gateway" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateSessionToken("not-a-token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	os.Setenv("SESSION_SECRET", "a-different-secret")
	defer os.Setenv("SESSION_SECRET", "test-secret-key-for-unit-tests")

	if _, err := ValidateSessionToken(token); err == nil {
		t.Error("expected an error for a token signed with another secret")
	}
}
