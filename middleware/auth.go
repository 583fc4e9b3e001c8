package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"storefront/auth"
)

// SessionCookie holds the admin session token
const SessionCookie = "admin_session"

// TokenParser validates a session token
type TokenParser interface {
	Parse(token string) (*auth.Session, error)
}

// TokenFromRequest reads a Bearer token, falling back to the session cookie
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Session attaches the caller's session to the request context when it
// carries a valid token. Requests without one continue anonymously.
func Session(parser TokenParser) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			session, err := parser.Parse(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
