package session

import "errors"

// Session maps an opaque bearer token to the email that logged in. Sessions
// never expire and there is no logout, so a record lives as long as the
// backing store does.
type Session struct {
	Token     string `json:"token"`
	UserEmail string `json:"user_email"`
}

var ErrNotFound = errors.New("session not found")
