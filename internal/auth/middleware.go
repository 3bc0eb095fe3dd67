// internal/auth/middleware.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// Middleware resolves the acting user from a bearer token. Superuser status
// and organization membership come from the users table, never from the
// token itself.
type Middleware struct {
	Secret   string
	UserRepo repository.UserRepositoryInterface
}

func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(m.Secret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			http.Error(w, "invalid token subject", http.StatusUnauthorized)
			return
		}

		user, err := m.UserRepo.GetByID(subject)
		if err != nil {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		if user.Status != "active" {
			http.Error(w, "user is not active", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the authenticated user placed on the context by
// RequireUser.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// WithUser is a test helper for handler tests that bypass the middleware.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
