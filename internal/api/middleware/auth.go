package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/logger"
	"github.com/dom/lightprompt/internal/service"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller of a request
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

// IsAdmin reports whether the caller may use admin routes
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

// TokenValidator is the part of the auth service the middleware needs
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.TokenClaims, error)
}

func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				slog.Debug("missing authorization header", "op", "middleware.Auth")
				unauthorized(w, r, "authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				slog.Debug("invalid authorization header format", "op", "middleware.Auth")
				unauthorized(w, r, "invalid authorization header")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				slog.Debug("token validation failed", "op", "middleware.Auth", logger.Err(err))
				unauthorized(w, r, "invalid token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the admin role. It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			unauthorized(w, r, "unauthorized")
			return
		}
		if !id.IsAdmin() {
			slog.Warn("admin route refused", "op", "middleware.RequireAdmin", "userId", id.UserID)
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": msg})
}
