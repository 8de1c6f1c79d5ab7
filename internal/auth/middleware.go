package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/utils"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware rejects requests without a valid, unrevoked bearer token and
// stores the token claims on the request context. revoked may be nil.
func Middleware(tokens *TokenManager, revoked RevocationStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtractTokenFromRequest(r)
			if errors.Is(err, ErrMissingToken) {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
				return
			}
			if err != nil {
				log.LogSecurity("AUTH", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token invalid")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				log.LogSecurity("AUTH", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token invalid")
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Error("AUTH", fmt.Sprintf("Revocation lookup failed: %v", err))
					utils.WriteErrorMessage(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				if isRevoked {
					log.LogSecurity("AUTH", fmt.Sprintf("revoked token used for user %d", claims.UserID))
					utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token invalid")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user id placed on ctx by Middleware.
func UserID(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
