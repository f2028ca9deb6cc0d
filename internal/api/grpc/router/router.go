package router

import (
	"context"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/dtroode/deltacargo-server/internal/api/grpc/codec"
	"github.com/dtroode/deltacargo-server/internal/api/grpc/handler"
	"github.com/dtroode/deltacargo-server/internal/api/grpc/middleware"
	"github.com/dtroode/deltacargo-server/internal/config"
	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
)

// publicMethods are served without a bearer token.
var publicMethods = map[string]struct{}{
	handler.MethodRegister: {},
	handler.MethodLogin:    {},
	handler.MethodSearch:   {},
}

// Router represents a gRPC router for cargo operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	authService    handler.AuthService
	trackService   handler.TrackService
	userService    handler.UserService
	authenticator  middleware.Authenticator
	health         healthpb.HealthServer
	rateLimit      config.RateLimit
	contextManager model.ContextManager
	logger         *logger.Logger
}

// Services groups the application services exposed over gRPC.
type Services struct {
	Auth          handler.AuthService
	Tracks        handler.TrackService
	Users         handler.UserService
	Authenticator middleware.Authenticator
	// Health is optional; when nil no health service is registered.
	Health healthpb.HealthServer
}

// New creates new gRPC Router instance.
func New(
	services Services,
	rateLimit config.RateLimit,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    services.Auth,
		trackService:   services.Tracks,
		userService:    services.Users,
		authenticator:  services.Authenticator,
		health:         services.Health,
		rateLimit:      rateLimit,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth reports whether a method needs an authenticated principal.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	if _, ok := publicMethods[c.FullMethod()]; ok {
		return false
	}
	return !strings.HasPrefix(c.FullMethod(), "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

// quotas returns per-method limits for the credential-sensitive methods.
func (r *Router) quotas() map[string]middleware.Quota {
	return map[string]middleware.Quota{
		handler.MethodRegister:       {Count: r.rateLimit.RegisterPerHour, Window: time.Hour},
		handler.MethodLogin:          {Count: r.rateLimit.LoginPerMinute, Window: time.Minute},
		handler.MethodChangePassword: {Count: r.rateLimit.PasswordPerHour, Window: time.Hour},
	}
}

// Register registers all gRPC services and middleware.
// It sets up the gRPC server with request logging, rate limiting and
// authentication interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)

	unary := []grpc.UnaryServerInterceptor{logging.HandleGRPC}
	if r.rateLimit.Enabled {
		unary = append(unary, middleware.RateLimit(middleware.NewPeerLimiter(r.quotas())))
	}
	unary = append(unary, selector.UnaryServerInterceptor(
		auth.UnaryServerInterceptor(authenticate.AuthFunc),
		selector.MatchFunc(requiresAuth),
	))

	opts = append(opts,
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	s := grpc.NewServer(opts...)

	handler.RegisterAuthServer(s, handler.NewAuth(r.authService, r.contextManager, r.logger))
	handler.RegisterTracksServer(s, handler.NewTracks(r.trackService, r.contextManager, r.logger))
	handler.RegisterUsersServer(s, handler.NewUsers(r.userService, r.contextManager, r.logger))
	if r.health != nil {
		healthpb.RegisterHealthServer(s, r.health)
	}

	return s
}
