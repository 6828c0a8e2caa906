// Package identity builds the per-request caller identity from an inbound
// Authorization header.
//
// Token decoding is intentionally UNVERIFIED: the gateway trusts the auth
// service's signature and only needs the claims for routing and authorization
// gating. Every downstream call re-sends the raw token, and each downstream
// service verifies it before acting. The decoded identity must therefore
// never be treated as a security boundary by itself.
package identity

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim value that marks an administrator.
const RoleAdmin = "admin"

// User is the best-effort identity decoded from the bearer token's claims.
// Zero value when no usable claims were present.
type User struct {
	ID    string
	Email string
	Role  string
	Name  string
}

// Identity carries the raw token plus the decoded user for one request.
// Built once per inbound request, immutable for its lifetime.
type Identity struct {
	Token string
	User  User
}

// IsAuthenticated reports whether a bearer token was presented. Presence of
// a token is the gate; validity is the downstream's concern.
func (id Identity) IsAuthenticated() bool {
	return id.Token != ""
}

// IsAdmin reports whether the decoded role claim marks an administrator.
func (id Identity) IsAdmin() bool {
	return id.User.Role == RoleAdmin
}

// FromAuthorizationHeader builds an Identity from a raw Authorization header
// value. A missing header, a bare token without the Bearer prefix, and a
// malformed token are all tolerated; decode failures yield an identity with
// the raw token but an empty user, never an error.
func FromAuthorizationHeader(header string) Identity {
	token := strings.TrimPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}
	}

	return Identity{
		Token: token,
		User:  decodeClaims(token),
	}
}

// decodeClaims extracts the user claims without signature verification.
// Any parse failure yields the zero User.
func decodeClaims(token string) User {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return User{}
	}

	u := User{
		ID:    stringClaim(claims, "userId"),
		Email: stringClaim(claims, "email"),
		Role:  stringClaim(claims, "role"),
		Name:  stringClaim(claims, "name"),
	}
	if u.Name == "" {
		u.Name = u.Email
	}
	return u
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

type contextKey struct{}

// NewContext returns a context carrying the identity.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or the zero Identity when
// none was attached.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
