package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckCredentials(t *testing.T) {
	cfg := AuthConfig{Username: "admin", Password: "secret"}

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "secret", true},
		{"admin", "Secret", false},
		{"Admin", "secret", false},
		{"admin", "", false},
		{"", "secret", false},
		{"admin", "secret ", false},
	}

	for _, tt := range tests {
		if got := cfg.checkCredentials(tt.user, tt.pass); got != tt.want {
			t.Errorf("checkCredentials(%q, %q) = %v, want %v", tt.user, tt.pass, got, tt.want)
		}
	}
}

func TestCheckCredentials_EmptyConfiguredUserNeverMatches(t *testing.T) {
	cfg := AuthConfig{Username: "", Password: ""}
	if cfg.checkCredentials("", "") {
		t.Fatal("empty configured credentials must not authenticate")
	}
}

func TestCheckCredentials_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	// Password is ignored once a hash is configured.
	cfg := AuthConfig{Username: "admin", Password: "plain", PasswordHash: string(hash)}

	if !cfg.checkCredentials("admin", "hunter2") {
		t.Error("expected bcrypt password to match")
	}
	if cfg.checkCredentials("admin", "plain") {
		t.Error("plain password must not match when a hash is set")
	}
}

func TestRequireBasicAuth(t *testing.T) {
	cfg := AuthConfig{Username: "admin", Password: "secret", Realm: `up"loads`}
	m := NewMetrics()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	h := cfg.requireBasicAuth(next, nil, m)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without calling next, got %d called=%v", rr.Code, called)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != `Basic realm="uploads", charset="UTF-8"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
	if m.Snapshot().Rejected("unauthorized") != 1 {
		t.Errorf("rejection not counted")
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("admin", "secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent || !called {
		t.Fatalf("expected next to run, got %d called=%v", rr.Code, called)
	}
}

func TestRealmDefault(t *testing.T) {
	if got := (AuthConfig{}).realm(); got != "image-drop" {
		t.Fatalf("realm() = %q", got)
	}
}
