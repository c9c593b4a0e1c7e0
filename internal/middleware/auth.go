package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shelfsense/backend/pkg/auth"
)

type contextKey string

const (
	StaffIDKey contextKey = "staff_id"
	EmailKey   contextKey = "email"
	RoleKey    contextKey = "role"
)

// AuthMiddleware validates the JWT token and stores the claims in the context
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), StaffIDKey, claims.StaffID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole checks that the authenticated staff member has one of the
// given roles. Managers pass every gate.
func RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(RoleKey).(string)
			if !ok {
				respondError(w, http.StatusForbidden, "Role missing from token")
				return
			}
			if role == auth.RoleManager {
				next.ServeHTTP(w, r)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "Insufficient role")
		})
	}
}

// StaffIDFromContext extracts the authenticated staff id
func StaffIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(StaffIDKey).(uint)
	return id, ok
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
