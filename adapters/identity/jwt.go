package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"helpify/core"
)

var (
	// ErrInvalidToken is returned when the token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the token payload the external identity provider issues: a user
// id and a marketplace role.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier turns bearer tokens into core actors. It trusts the signing
// secret shared with the identity provider and does no authentication of
// its own.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *Verifier) Verify(tokenString string) (core.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return core.Actor{}, ErrExpiredToken
		}
		return core.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return core.Actor{}, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return core.Actor{}, ErrInvalidToken
	}

	role := core.Role(claims.Role)
	if role != core.RoleClient && role != core.RoleHelper {
		return core.Actor{}, ErrInvalidToken
	}

	return core.Actor{ID: claims.UserID, Role: role}, nil
}

// Sign issues a token for the given actor. The service itself never issues
// tokens in production; this backs local runs and tests.
func (v *Verifier) Sign(actor core.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: actor.ID,
		Role:   string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
