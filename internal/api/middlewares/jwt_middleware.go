package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dompet_api/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware verifies the HS256 token from the "Bearer" cookie or the
// Authorization header and puts the principal claims on the request context.
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
				return
			}

			parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.WriteError(w, "token expired", http.StatusUnauthorized)
					return
				}
				utils.Logger.WithError(err).Debug("rejected JWT")
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			claims, ok := parsedToken.Claims.(jwt.MapClaims)
			if !ok || !parsedToken.Valid {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.RoleKey, claims["role"])
			ctx = context.WithValue(ctx, utils.ContextKey("expiresAt"), claims["exp"])
			ctx = context.WithValue(ctx, utils.UsernameKey, claims["user"])
			ctx = context.WithValue(ctx, utils.UserIDKey, claims["uid"])

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie("Bearer"); err == nil && cookie.Value != "" {
		return strings.TrimPrefix(cookie.Value, "Bearer ")
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// MiddlewaresExcludePaths applies middleware to every request except those
// whose path matches one of the given paths exactly.
func MiddlewaresExcludePaths(middleware func(http.Handler) http.Handler, excludedPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range excludedPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
