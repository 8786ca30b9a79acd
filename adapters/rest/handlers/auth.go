package handlers

import (
	"errors"
	"net/http"
	"strings"

	"helpify/core"
)

var errNoToken = errors.New("missing bearer token")

// ActorVerifier resolves a bearer token into an authenticated actor. The
// identity adapter implements it in production.
type ActorVerifier interface {
	Verify(token string) (core.Actor, error)
}

func bearerActor(r *http.Request, v ActorVerifier) (core.Actor, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return core.Actor{}, errNoToken
	}
	return v.Verify(strings.TrimSpace(token))
}
