// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the authenticated identity.
const identityKey ContextKey = "identity"

// TokenValidator is an interface for validating bearer tokens.
// This allows the middleware to work with any token service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (IdentityGetter, error)
}

// IdentityGetter is an interface for extracting the identity from token claims.
type IdentityGetter interface {
	GetIdentity() types.Identity
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="jobboard"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// bearerToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the
// caller's identity to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing or malformed bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			identity := claims.GetIdentity()
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &identity)))
		})
	}
}

// RequireRole rejects requests whose identity does not carry the given role.
// It must run inside AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := GetIdentity(r)
			if err != nil {
				unauthorized(w, "authentication required")
				return
			}
			if identity.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": fmt.Sprintf("this action requires the %s role", role),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *types.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(r *http.Request) (*types.Identity, error) {
	identity, ok := r.Context().Value(identityKey).(*types.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("identity not found in request context")
	}
	return identity, nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	identity, err := GetIdentity(r)
	if err != nil {
		return uuid.Nil, err
	}
	return identity.UserID, nil
}
