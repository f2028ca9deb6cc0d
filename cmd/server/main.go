package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/deltacargo-server/internal/api/grpc/context"
	"github.com/dtroode/deltacargo-server/internal/api/grpc/handler"
	"github.com/dtroode/deltacargo-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/deltacargo-server/internal/api/grpc/server"
	"github.com/dtroode/deltacargo-server/internal/config"
	"github.com/dtroode/deltacargo-server/internal/health"
	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/repository/postgres"
	"github.com/dtroode/deltacargo-server/internal/server"
	"github.com/dtroode/deltacargo-server/internal/service"
	storage "github.com/dtroode/deltacargo-server/internal/storage/minio"
	"github.com/dtroode/deltacargo-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	archive, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize manifest storage", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	trackRepo := postgres.NewTrackRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	checker := health.NewChecker(db, cfg.HealthInterval, logger,
		handler.AuthServiceName, handler.TracksServiceName, handler.UsersServiceName)
	go checker.Run(ctx)

	r := router.New(router.Services{
		Auth:          service.NewAuth(userRepo, auditRepo, tokenManager, logger),
		Tracks:        service.NewTracks(trackRepo, auditRepo, archive, logger),
		Users:         service.NewUsers(userRepo, auditRepo, logger),
		Authenticator: service.NewAccess(userRepo, tokenManager, logger),
		Health:        checker.Server(),
	}, cfg.RateLimit, grpcctx.NewManager(), logger)

	s := r.Register()
	reflection.Register(s)
	srv := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.GRPC)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "tls", cfg.GRPC.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
