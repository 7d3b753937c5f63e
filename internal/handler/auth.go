package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/user"
)

type ctxKey string

const userKey ctxKey = "authenticatedUser"

// UserFromContext returns the authenticated user placed there by
// AuthMiddleware, or nil outside an authenticated route.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

// AuthMiddleware resolves the bearer token to a user and rejects the
// request when it cannot.
func AuthMiddleware(userService user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := userService.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				status, message := mapServiceErrorToUserMessage(err)
				respondError(w, status, message)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
