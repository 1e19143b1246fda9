package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSession(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"

	t.Run("ValidToken", func(t *testing.T) {
		token, err := IssueToken("user-1", secret, time.Hour)
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		userID, err := NewSession(token, secret).CurrentUserID(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if userID != "user-1" {
			t.Errorf("Expected user 'user-1', got '%s'", userID)
		}
	})

	t.Run("NoToken", func(t *testing.T) {
		_, err := NewSession("", secret).CurrentUserID(ctx)
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("Expected ErrNoSession, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, _ := IssueToken("user-1", "other-secret", time.Hour)
		if _, err := NewSession(token, secret).CurrentUserID(ctx); err == nil {
			t.Error("Expected an error for a token signed with another secret, got nil")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, _ := IssueToken("user-1", secret, time.Minute)
		session := NewSession(token, secret)
		session.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		if _, err := session.CurrentUserID(ctx); err == nil {
			t.Error("Expected an error for an expired token, got nil")
		}
	})

	t.Run("MissingSubject", func(t *testing.T) {
		token, _ := IssueToken("", secret, time.Hour)
		if _, err := NewSession(token, secret).CurrentUserID(ctx); err == nil {
			t.Error("Expected an error for a token without subject, got nil")
		}
	})
}
