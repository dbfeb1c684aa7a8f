package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

const authRealm = `Basic realm="Login Required"`

const authChallenge = "Could not verify your access level for that URL.\n" +
	"You have to login with proper credentials\n"

// HashPassword returns a bcrypt hash suitable for auth.password_hash / GAME_BACKLOG_PASS_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", shared.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckCredentials reports whether username and password match the configured account.
//
// A configured PasswordHash takes precedence over the plain Password.
func CheckCredentials(cfg shared.AuthConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1

	var passOK bool
	if cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	}

	return userOK && passOK
}

// BasicAuth rejects requests without valid credentials with a 401 challenge.
//
// Credentials are checked on every request. onAttempt, when set, is told whether each check passed.
func BasicAuth(cfg shared.AuthConfig, logger *log.Logger, onAttempt func(ok bool)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, present := r.BasicAuth()
			ok := present && CheckCredentials(cfg, username, password)

			if onAttempt != nil {
				onAttempt(ok)
			}

			if !ok {
				if present {
					logger.Warn("authentication failed", "user", username, "path", r.URL.Path, "remote", r.RemoteAddr)
				}
				w.Header().Set("WWW-Authenticate", authRealm)
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(authChallenge))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
