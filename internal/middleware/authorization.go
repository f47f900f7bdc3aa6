package middleware

import (
	"net/http"

	"accsmarket-backend/internal/service"

	"go.uber.org/zap"
)

// RequireAdmin gates a route behind the persisted is_admin flag. It must be
// stacked after AuthMiddleware: unauthenticated callers are rejected there
// with 401, authenticated non-admins here with 403.
func RequireAdmin(authService service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				logger.Warn("User id not found in context")
				RespondWithError(w, http.StatusForbidden, "admin access required")
				return
			}

			if err := authService.RequireAdmin(r.Context(), userID); err != nil {
				if err == service.ErrAdminRequired {
					logger.Warn("Non-admin user attempted to access admin endpoint",
						zap.String("user_id", userID.String()),
					)
					RespondWithError(w, http.StatusForbidden, "admin access required")
					return
				}

				logger.Error("Admin check failed", zap.Error(err))
				RespondWithError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
