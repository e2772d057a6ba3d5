package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-16", time.Hour)
	userID := uuid.New()

	token, err := m.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != userID {
		t.Fatalf("expected user %v, got %v", userID, got)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-16", time.Hour)

	token, err := m.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("issuer-secret-xxxxxx", time.Hour)
	verifier := NewTokenManager("another-secret-xxxxx", time.Hour)

	token, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret-at-least-16", -time.Minute)

	token, err := m.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
