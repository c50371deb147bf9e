package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/listenupapp/catalog-server/internal/auth"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// claimsKey is the context key for the verified access token claims.
const claimsKey ctxKey = "claims"

// GetClaims returns the verified token claims from context.
// Returns 401 error if the request carried no valid token.
func GetClaims(ctx context.Context) (*auth.AccessClaims, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.AccessClaims)
	if !ok || claims == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return claims, nil
}

func setClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// authMiddleware validates Bearer tokens and stores the claims in context.
// Requests without a valid token continue anonymously; handlers that need
// an identity call RequireUser or RequireAdmin.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setClaims(r.Context(), claims)))
		})
	}
}

// RequireUser returns the caller's claims after checking the owner still exists.
// The returned role is the owner's stored role, not the one in the token.
func (s *Server) RequireUser(ctx context.Context) (*auth.AccessClaims, error) {
	claims, err := GetClaims(ctx)
	if err != nil {
		return nil, err
	}

	owner, err := s.store.GetOwner(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error401Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}

	current := *claims
	current.Role = owner.Role
	return &current, nil
}

// RequireAdmin validates the caller is authenticated and has the admin role.
func (s *Server) RequireAdmin(ctx context.Context) (*auth.AccessClaims, error) {
	claims, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if !claims.IsAdmin() {
		return nil, httpError(domainerrors.Forbidden("Admin access required"))
	}

	return claims, nil
}
