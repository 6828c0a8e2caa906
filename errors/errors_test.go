package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{
			name: "nil error defaults to internal",
			err:  nil,
			want: ClassInternal,
		},
		{
			name: "sentinel not authenticated",
			err:  ErrNotAuthenticated,
			want: ClassUnauthenticated,
		},
		{
			name: "wrapped sentinel not found",
			err:  fmt.Errorf("lookup: %w", ErrNotFound),
			want: ClassNotFound,
		},
		{
			name: "classified unavailable",
			err:  WrapUnavailable(stderrors.New("connection refused"), "Client", "Get", "request"),
			want: ClassUnavailable,
		},
		{
			name: "classified unauthorized",
			err:  WrapUnauthorized(stderrors.New("role mismatch"), "Resolver", "CreateCoupon", "dispatch"),
			want: ClassUnauthorized,
		},
		{
			name: "unexpected shape is invalid",
			err:  ErrUnexpectedShape,
			want: ClassInvalid,
		},
		{
			name: "plain error is internal",
			err:  stderrors.New("boom"),
			want: ClassInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassOf(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthenticated", ErrNotAuthenticated, "UNAUTHENTICATED"},
		{"unauthorized", WrapUnauthorized(stderrors.New("no"), "c", "m", "a"), "FORBIDDEN"},
		{"not found", ErrNotFound, "NOT_FOUND"},
		{"unavailable", ErrServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"invalid", ErrUnexpectedShape, "INVALID_INPUT"},
		{"internal", stderrors.New("boom"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestWrapPreservesUnderlying(t *testing.T) {
	base := stderrors.New("dial tcp: connection refused")
	err := WrapUnavailable(base, "Client", "Get", "GET /api/products")

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, base))
	assert.Contains(t, err.Error(), "Client.Get")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsUnauthenticated(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "c", "m", "a"))
	assert.NoError(t, WrapUnauthenticated(nil, "c", "m", "a"))
	assert.NoError(t, WrapUnavailable(nil, "c", "m", "a"))
	assert.NoError(t, WrapNotFound(nil, "c", "m", "a"))
	assert.NoError(t, WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, WrapInternal(nil, "c", "m", "a"))
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "unauthenticated", ClassUnauthenticated.String())
	assert.Equal(t, "unauthorized", ClassUnauthorized.String())
	assert.Equal(t, "not_found", ClassNotFound.String())
	assert.Equal(t, "unavailable", ClassUnavailable.String())
	assert.Equal(t, "invalid", ClassInvalid.String())
	assert.Equal(t, "internal", ClassInternal.String())
}
