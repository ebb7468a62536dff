package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/logger"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserContext is the identity resolved from a verified access token. It is
// the only channel downstream handlers may use to learn who is calling;
// user IDs in request bodies are never trusted for authorization.
type UserContext struct {
	UserID uuid.UUID
	Email  string
}

// Middleware is the auth gate: it extracts and verifies the bearer token and
// attaches the resolved identity to the request context. Missing header,
// malformed header, wrong scheme, bad signature and expiry each reject
// with 401.
func Middleware(authService *Service) func(http.Handler) http.Handler {
	log := logger.Default().WithComponent("auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := apperrors.GetRequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn(r.Context(), "malformed authorization header", map[string]interface{}{
					"path": r.URL.Path,
				})
				apperrors.WriteError(w, requestID, apperrors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := authService.VerifyAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					apperrors.WriteError(w, requestID, apperrors.TokenExpired())
					return
				}
				log.Warn(r.Context(), "access token rejected", map[string]interface{}{
					"path":   r.URL.Path,
					"reason": err.Error(),
				})
				apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid access token"))
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid user ID in token"))
				return
			}

			userCtx := &UserContext{
				UserID: userID,
				Email:  claims.Email,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the identity attached by the auth gate,
// or nil for unauthenticated requests.
func GetUserFromContext(ctx context.Context) *UserContext {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return user
}
