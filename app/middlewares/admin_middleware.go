package middlewares

import (
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// AdminAuthMiddleware lets through admins holding an unexpired token. Missing
// or expired sessions are cleared and sent to login; other roles are sent
// home. JSON callers get the status code instead of a redirect.
func AdminAuthMiddleware(rnd *render.Render, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := helpers.AuthFromContext(r.Context())
			if !ok {
				logger.Warn("AdminAuthMiddleware: auth context missing, redirecting to login")
				helpers.RedirectWithMessage(w, r, "/login", helpers.StatusAuth, "Anda harus login untuk mengakses admin panel.")
				return
			}

			err := auth.RequireAdmin()
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			kind := client.KindOf(err)
			logger.Info("AdminAuthMiddleware: access denied",
				zap.String("path", r.URL.Path), zap.String("kind", kind.String()))

			if kind == client.KindForbidden {
				if helpers.WantsJSON(r) {
					_ = rnd.JSON(w, http.StatusForbidden, map[string]string{"status": helpers.StatusForbidden, "message": client.UserMessage(err)})
					return
				}
				helpers.RedirectWithMessage(w, r, "/", helpers.StatusForbidden, "Anda tidak memiliki izin untuk mengakses halaman ini.")
				return
			}

			if clearErr := auth.Clear(); clearErr != nil {
				logger.Warn("AdminAuthMiddleware: failed to clear session", zap.Error(clearErr))
			}
			if helpers.WantsJSON(r) {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"status": helpers.StatusAuth, "message": client.UserMessage(err)})
				return
			}
			helpers.RedirectWithMessage(w, r, "/login", helpers.StatusAuth, client.UserMessage(err))
		})
	}
}
