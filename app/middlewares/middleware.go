package middlewares

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/liststate"
	"github.com/Rakhulsr/venue-admin/app/utils/sessions"
)

// AuthContextMiddleware attaches the request's auth context and, when a
// profile is stored, the signed in user.
func AuthContextMiddleware(manager *sessions.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := manager.AuthContext(w, r)
			ctx := helpers.WithAuth(r.Context(), auth)
			if profile, ok := auth.Profile(); ok {
				ctx = helpers.WithUser(ctx, &profile)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkspaceMiddleware binds the admin's cached lists to the request.
func WorkspaceMiddleware(manager *sessions.Manager, registry *liststate.Registry[*services.Workspace]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := manager.ScreenKey(w, r)
			ctx := helpers.WithWorkspace(r.Context(), registry.Get(key))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			override := r.Form.Get("_method")
			if override != "" {
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
