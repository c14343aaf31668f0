// Package auth extracts the authenticated identity from incoming
// requests. Authentication itself happens upstream: a fronting identity
// proxy verifies the session and forwards the user's attributes as
// headers. This package only reads that contract; it never mints
// identities.
package auth

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
	HeaderUserImage = "X-User-Image"
)

// Identity is the provider-supplied view of the caller.
type Identity struct {
	ID    string
	Name  string
	Email string
	Image string
}

// FromRequest reads the identity headers set by the identity proxy.
// A missing or blank user id means the request is unauthenticated.
func FromRequest(r *http.Request) (Identity, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Identity{}, core.ErrUnauthorized
	}
	return Identity{
		ID:    id,
		Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
		Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		Image: strings.TrimSpace(r.Header.Get(HeaderUserImage)),
	}, nil
}

// User converts the identity into the ledger's user record shape, used
// when creating the row on first contact.
func (i Identity) User() core.User {
	return core.User{ID: i.ID, Name: i.Name, Email: i.Email, Image: i.Image}
}
