// auth.go - HTTP Basic authentication for the upload route.
//
// A single static username/password pair guards uploads. Reads of stored
// images are public and never pass through this gate.
package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the one accepted credential pair. When PasswordHash is
// non-empty it is a bcrypt hash and Password is ignored.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Realm        string
}

func (a AuthConfig) realm() string {
	r := strings.ReplaceAll(a.Realm, `"`, "")
	if r == "" {
		return "image-drop"
	}
	return r
}

// checkCredentials reports whether user/pass match the configured pair.
// Plain comparisons go through SHA-256 digests and hmac.Equal so timing
// does not depend on where the inputs differ.
func (a AuthConfig) checkCredentials(user, pass string) bool {
	userHash := sha256.Sum256([]byte(user))
	wantUserHash := sha256.Sum256([]byte(a.Username))
	uOK := hmac.Equal(userHash[:], wantUserHash[:])

	var pOK bool
	if a.PasswordHash != "" {
		pOK = bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pass)) == nil
	} else {
		pwHash := sha256.Sum256([]byte(pass))
		wantPwHash := sha256.Sum256([]byte(a.Password))
		pOK = hmac.Equal(pwHash[:], wantPwHash[:])
	}

	return uOK && pOK && a.Username != ""
}

// authenticate validates the request's Authorization header.
func (a AuthConfig) authenticate(r *http.Request) *apiError {
	user, pass, ok := r.BasicAuth()
	if !ok || !a.checkCredentials(user, pass) {
		return unauthorizedError()
	}
	return nil
}

// requireBasicAuth rejects requests without valid credentials before the
// wrapped handler can touch the request body.
func (a AuthConfig) requireBasicAuth(next http.Handler, log *Logger, m *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiErr := a.authenticate(r); apiErr != nil {
			m.RecordRejection(apiErr.reason())
			log.Warn("upload rejected", map[string]interface{}{
				"rid":    RequestIDFromContext(r.Context()),
				"reason": apiErr.reason(),
			})
			writeError(w, apiErr, a.realm())
			return
		}
		next.ServeHTTP(w, r)
	})
}
