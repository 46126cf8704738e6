package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"trolleyseal/auth"
	"trolleyseal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// AuthMiddleware validates the session token and injects the session user
// into the request context. Scan additions and flight creation sit behind
// this; record attribution comes from the injected identity.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeError(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				writeError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := &models.AppUser{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the session user injected by AuthMiddleware.
func GetUserFromContext(ctx context.Context) (*models.AppUser, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.AppUser)
	return user, ok
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
