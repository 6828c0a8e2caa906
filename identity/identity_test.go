package identity

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken builds a real HS256 token so ParseUnverified has a well-formed
// input. The signing key is irrelevant; the gateway never verifies.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestFromAuthorizationHeader(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{
		"userId": "user123",
		"email":  "test@example.com",
		"role":   "customer",
		"name":   "Test User",
	})

	tests := []struct {
		name      string
		header    string
		wantToken bool
		wantUser  User
	}{
		{
			name:   "empty header yields anonymous identity",
			header: "",
		},
		{
			name:      "bearer token with full claims",
			header:    "Bearer " + valid,
			wantToken: true,
			wantUser:  User{ID: "user123", Email: "test@example.com", Role: "customer", Name: "Test User"},
		},
		{
			name:      "token without bearer prefix still decoded",
			header:    valid,
			wantToken: true,
			wantUser:  User{ID: "user123", Email: "test@example.com", Role: "customer", Name: "Test User"},
		},
		{
			name:      "malformed token keeps raw token but empty user",
			header:    "Bearer not-a-jwt",
			wantToken: true,
			wantUser:  User{},
		},
		{
			name:   "bearer prefix with no token",
			header: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := FromAuthorizationHeader(tt.header)
			assert.Equal(t, tt.wantToken, id.IsAuthenticated())
			assert.Equal(t, tt.wantUser, id.User)
		})
	}
}

func TestNameFallsBackToEmail(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{
		"userId": "user456",
		"email":  "noname@example.com",
		"role":   "seller",
	})

	id := FromAuthorizationHeader("Bearer " + tok)
	assert.Equal(t, "noname@example.com", id.User.Name)
}

func TestIsAdmin(t *testing.T) {
	admin := Identity{Token: "x", User: User{Role: "admin"}}
	customer := Identity{Token: "x", User: User{Role: "customer"}}
	anonymous := Identity{}

	assert.True(t, admin.IsAdmin())
	assert.False(t, customer.IsAdmin())
	assert.False(t, anonymous.IsAdmin())
}

func TestContextRoundTrip(t *testing.T) {
	id := Identity{Token: "tok", User: User{ID: "u1"}}
	ctx := NewContext(context.Background(), id)

	assert.Equal(t, id, FromContext(ctx))
	assert.Equal(t, Identity{}, FromContext(context.Background()))
}

func TestNonStringClaimsIgnored(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{
		"userId": 12345, // numeric claim must not panic
		"email":  "n@example.com",
	})

	id := FromAuthorizationHeader("Bearer " + tok)
	assert.Empty(t, id.User.ID)
	assert.Equal(t, "n@example.com", id.User.Email)
}
