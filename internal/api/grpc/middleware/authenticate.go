package middleware

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
)

// Authenticator resolves a bearer token to a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates bearer tokens and injects the principal into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the "authorization: Bearer <token>" header and stores the
// resolved principal in the returned context.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	user, err := m.authenticator.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrUnauthenticated) {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		m.logger.Error("Authenticate middleware: failed to resolve principal",
			"error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return m.contextManager.SetPrincipalToContext(ctx, user), nil
}
