package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTer_IssueAndParse(t *testing.T) {
	j := NewJWTer("secret", "task-manager", 0)
	if j.TTL != DefaultTTL {
		t.Fatalf("TTL = %v, want %v", j.TTL, DefaultTTL)
	}

	tok, err := j.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.UID != "user-1" {
		t.Errorf("UID = %q, want user-1", c.UID)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != 7*24*time.Hour {
		t.Errorf("validity window = %v, want 168h", got)
	}
}

func TestJWTer_ParseRejects(t *testing.T) {
	j := NewJWTer("secret", "task-manager", time.Hour)
	good, err := j.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTer("other", "task-manager", time.Hour)
		if _, err := other.Parse(good); err == nil {
			t.Error("expected signature error")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTer("secret", "someone-else", time.Hour)
		if _, err := other.Parse(good); err == nil {
			t.Error("expected issuer error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTer("secret", "task-manager", time.Hour)
		past.Now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
		old, err := past.Issue("user-1")
		if err != nil {
			t.Fatal(err)
		}
		_, err = j.Parse(old)
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := j.Parse("not-a-token"); err == nil {
			t.Error("expected malformed error")
		}
	})

	t.Run("empty uid", func(t *testing.T) {
		if _, err := j.Issue(""); err == nil {
			t.Error("expected error for empty uid")
		}
	})
}
