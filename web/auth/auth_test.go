// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdhender/calc/web/auth"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret", auth.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword("secret", hash) {
		t.Errorf("CheckPassword(secret) = false, want true")
	}
	if auth.CheckPassword("wrong", hash) {
		t.Errorf("CheckPassword(wrong) = true, want false")
	}
	if cost, err := auth.HashCost(hash); err != nil || cost != auth.MinCost {
		t.Errorf("HashCost = %d, %v; want %d", cost, err, auth.MinCost)
	}
	if _, err := auth.HashCost("secret"); err == nil {
		t.Errorf("HashCost(plain text): want error")
	}
	if _, err := auth.HashPassword("", auth.MinCost); !errors.Is(err, auth.ErrEmptyPassword) {
		t.Errorf("empty password: got %v, want ErrEmptyPassword", err)
	}
	if _, err := auth.HashPassword("secret", auth.MaxCost+1); err == nil {
		t.Errorf("cost above max: want error")
	}
}

func TestBasicAuth_Require(t *testing.T) {
	hash, err := auth.HashPassword("secret", auth.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, tc := range []struct {
		name     string
		ba       auth.BasicAuth
		user     string
		password string
		setAuth  bool
		want     int
	}{
		{"disabled", auth.BasicAuth{}, "", "", false, http.StatusNoContent},
		{"no credentials", auth.BasicAuth{User: "admin", Hash: hash}, "", "", false, http.StatusUnauthorized},
		{"wrong password", auth.BasicAuth{User: "admin", Hash: hash}, "admin", "nope", true, http.StatusUnauthorized},
		{"wrong user", auth.BasicAuth{User: "admin", Hash: hash}, "root", "secret", true, http.StatusUnauthorized},
		{"valid", auth.BasicAuth{User: "admin", Hash: hash}, "admin", "secret", true, http.StatusNoContent},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setAuth {
				req.SetBasicAuth(tc.user, tc.password)
			}
			rec := httptest.NewRecorder()
			tc.ba.Require(ok).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Errorf("missing WWW-Authenticate challenge")
			}
		})
	}
}
