package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthClaims carries the session user id issued by the identity provider.
// Token issuance is external; this server only verifies.
type AuthClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RequireAuth verifies the Bearer token and injects the session user id into
// the request context. Requests without a valid identity are rejected before
// any store access.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, `{"error": "missing token"}`, http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(h, "Bearer ")
			token, err := jwt.ParseWithClaims(tokenStr, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error": "invalid token"}`, http.StatusUnauthorized)
				return
			}

			claims := token.Claims.(*AuthClaims)
			userID := claims.UserID
			if userID == "" {
				userID = claims.Subject
			}
			if userID == "" {
				http.Error(w, `{"error": "token has no user id"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying a session user id, exactly as
// RequireAuth sets it after verifying a token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the session user id injected by RequireAuth, or "" when the
// request carried no identity.
func UserID(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
