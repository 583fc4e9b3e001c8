package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront/auth"
	"storefront/utils"
)

// RequireAdmin rejects API calls without an admin session before the
// handler runs, so no body is read and no state is touched.
func RequireAdmin() mux.MiddlewareFunc {
	errorHandler := utils.NewErrorHandler()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAdmin(auth.SessionFrom(r.Context())) {
				errorHandler.HandleUnauthorized(w, "Unauthorized. Admin access required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminPage redirects anonymous visitors of admin pages to sign-in
func RequireAdminPage(loginPath string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAdmin(auth.SessionFrom(r.Context())) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
