package model

import "context"

// ContextManager carries the authenticated principal through a request.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, user User) context.Context
	GetPrincipalFromContext(ctx context.Context) (User, bool)
}
