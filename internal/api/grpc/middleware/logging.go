package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(contextManager model.ContextManager, logger *logger.Logger) *Logging {
	return &Logging{contextManager: contextManager, logger: logger}
}

// HandleGRPC logs method, caller, duration and status of each unary call.
// It must run after authentication to see the principal.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		code = codes.Internal
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	args := []any{
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String(),
	}
	if p, ok := peer.FromContext(ctx); ok {
		args = append(args, "peer", p.Addr.String())
	}
	if user, ok := l.contextManager.GetPrincipalFromContext(ctx); ok {
		args = append(args, "principal", user.Email)
	}

	switch {
	case code == codes.Internal || code == codes.Unknown:
		l.logger.Error("gRPC request failed", append(args, "error", err.Error())...)
	case err != nil:
		l.logger.Info("gRPC request rejected", append(args, "error", err.Error())...)
	default:
		l.logger.Info("gRPC request completed", args...)
	}

	return resp, err
}
