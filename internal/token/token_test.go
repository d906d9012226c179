package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := New("secret")

	signed, err := codec.Issue(42, "STUDENT")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id = %d, want 42", id)
	}
	if claims.Role != "STUDENT" {
		t.Fatalf("role = %q, want STUDENT", claims.Role)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	codec := New("secret")

	signed, err := codec.Issue(7, "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < 3; i++ {
		claims, err := codec.Verify(signed)
		if err != nil {
			t.Fatalf("verify #%d: %v", i, err)
		}
		id, err := claims.UserID()
		if err != nil {
			t.Fatalf("user id #%d: %v", i, err)
		}
		if id != 7 || claims.Role != "USER" {
			t.Fatalf("verify #%d: id=%d role=%q", i, id, claims.Role)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := NewWithTTL("secret", -time.Minute)

	signed, err := codec.Issue(1, "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := New("secret-a").Issue(1, "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := New("secret-b").Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := New("secret")

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): err = %v, want ErrInvalidToken", input, err)
		}
	}
}
