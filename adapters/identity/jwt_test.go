package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"helpify/core"
)

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v := NewVerifier("secret", "helpify")

	token, err := v.Sign(core.Actor{ID: 7, Role: core.RoleHelper}, time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	actor, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if actor.ID != 7 || actor.Role != core.RoleHelper {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestVerifier_Expired(t *testing.T) {
	t.Parallel()

	v := NewVerifier("secret", "helpify")

	token, err := v.Sign(core.Actor{ID: 7, Role: core.RoleClient}, -time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifier_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewVerifier("one", "helpify").Sign(core.Actor{ID: 7, Role: core.RoleClient}, time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if _, err := NewVerifier("two", "helpify").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_UnknownRole(t *testing.T) {
	t.Parallel()

	claims := Claims{
		UserID: 7,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewVerifier("secret", "helpify").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("secret", "helpify").Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
