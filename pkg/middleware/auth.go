package middleware

import (
	"net/http"
	"strings"

	"service-marketplace/internal/data/repository"
	"service-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSession validates the bearer session token and puts the acting
// user's id and role into the request context.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token, err := uuid.Parse(parts[1])
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid token format")
				return
			}

			session, err := sessionRepo.FindValidByToken(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session")
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID, string(session.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose session role does not match.
// Must run after AuthSession.
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if actual != role {
				logger.Warn("Role check failed",
					zap.String("required", role),
					zap.String("actual", actual),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
