package middleware

import (
	"net/http"

	sessionclient "github.com/workforcekit/sessionclient"
)

// SessionChecker is the slice of the session store the guards need.
type SessionChecker interface {
	IsAuthenticated(role sessionclient.Role) bool
}

// Guard redirects to loginURL when the role has no live session. The check is
// synchronous: no network call sits between the request and the verdict.
func Guard(store SessionChecker, role sessionclient.Role, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !store.IsAuthenticated(role) {
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects unauthenticated requests with 401 instead of a
// redirect. Intended for API routes where a redirect would confuse clients.
func RequireRole(store SessionChecker, role sessionclient.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !store.IsAuthenticated(role) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
