package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/furnistor/pkg/auth"
	"github.com/shashiranjanraj/furnistor/pkg/response"
)

type claimsKey struct{}
type principalKey struct{}

// TokenCookie is the cookie the login endpoint sets.
const TokenCookie = "token"

// Principal is the live account behind a validated token. The role comes from
// the store, not the token, so a role change takes effect on the next request
// even while the old credential is still valid.
type Principal struct {
	ID   string
	Role string
}

// PrincipalResolver loads the account a token subject refers to.
// Returning (nil, nil) means the account no longer exists.
type PrincipalResolver func(ctx context.Context, id string) (*Principal, error)

var resolvePrincipal PrincipalResolver

// SetPrincipalResolver installs the account lookup Auth runs after token
// validation. Without one, Auth falls back to the claims embedded in the token.
func SetPrincipalResolver(r PrincipalResolver) { resolvePrincipal = r }

// extractToken pulls the JWT from the token cookie, falling back to the
// Authorization: Bearer header for API clients.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Auth validates the request's JWT, resolves the live account behind it and
// stores both in the request context. Requests without a token get 401
// "Unauthenticated"; requests with a bad or expired token get 401 "Invalid
// token"; a valid token whose account is gone gets 401 "Unknown user".
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			response.Unauthorized(w, "Unauthenticated")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)

		if resolvePrincipal != nil {
			p, err := resolvePrincipal(ctx, claims.UserID)
			if err != nil {
				response.Error(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			if p == nil {
				response.Unauthorized(w, "Unknown user")
				return
			}
			ctx = context.WithValue(ctx, principalKey{}, p)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the authenticated claims stored by Auth.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// PrincipalFromCtx returns the resolved account stored by Auth.
func PrincipalFromCtx(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
