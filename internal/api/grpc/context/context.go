package context

import (
	"context"

	"github.com/dtroode/deltacargo-server/internal/model"
)

type principalKey struct{}

// Manager represents a gRPC context manager for the authenticated principal.
// The principal travels as a context value and never through metadata, so a
// client cannot forge it with a header.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext stores the live principal resolved by authentication.
//
// Parameters:
//   - ctx: The gRPC context
//   - user: The principal read from the user store
//
// Returns a new context carrying the principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// GetPrincipalFromContext retrieves the principal stored by the auth interceptor.
//
// Parameters:
//   - ctx: The gRPC context
//
// Returns the principal and a boolean indicating if one was found.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(principalKey{}).(model.User)
	return user, ok
}
