package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkwell-app/inkwell-diary/internal/api/respond"
)

type contextKey string

const userIDKey contextKey = "user_id"

// ExtractBearerToken pulls the token out of an Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	// Expect "Bearer <token>" format
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}
	return parts[1], nil
}

// Middleware verifies the bearer token on protected routes and attaches
// the resolved user id to the request context. It performs no store
// access and has no side effects beyond the context.
type Middleware struct {
	jwt *JWTManager
	log zerolog.Logger
}

func NewMiddleware(jwt *JWTManager, log zerolog.Logger) *Middleware {
	return &Middleware{jwt: jwt, log: log}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractBearerToken(r)
		if err != nil {
			respond.WriteUnauthorized(w, "Please authenticate")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			m.log.Debug().Err(err).Msg("token rejected")
			respond.WriteUnauthorized(w, "Please authenticate")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id from the context, or "" when
// the request never passed the middleware.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a context carrying the given user id. Intended for
// tests and internal callers that bypass the HTTP middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
