package middleware

import (
	"net/http"

	"github.com/carecircle/backend/pkg/response"
)

// Authenticator reports whether a caller currently has an active circle
// session. The session service satisfies this.
type Authenticator interface {
	Authenticated() bool
}

// RequireSession rejects requests while no circle session is active.
// Group-scoped routes sit behind this so handlers can assume a
// resolvable actor.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticated() {
				response.Unauthorized(w, "No active circle session")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
