// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package auth

import (
	"crypto/subtle"
	"net/http"
)

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "calc"

// BasicAuth checks HTTP basic credentials against a single user
// and a bcrypt password hash.
type BasicAuth struct {
	User string
	Hash string
}

// Enabled reports whether both a user and a hash are configured.
func (a BasicAuth) Enabled() bool {
	return a.User != "" && a.Hash != ""
}

// Valid reports whether the credentials match.
func (a BasicAuth) Valid(user, password string) bool {
	if !a.Enabled() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1
	// bcrypt runs even when the user does not match
	passwordOK := CheckPassword(password, a.Hash)
	return userOK && passwordOK
}

// Require wraps next so that requests must carry valid credentials.
// If authentication is not enabled, next is returned unchanged.
func (a BasicAuth) Require(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok || !a.Valid(user, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
