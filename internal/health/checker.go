// Package health reports database reachability through the standard gRPC
// health service.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/deltacargo-server/internal/logger"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker periodically pings the database and publishes the result as the
// overall serving status and the status of every registered service.
type Checker struct {
	server   *health.Server
	pinger   Pinger
	services []string
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker. services are the fully-qualified service
// names whose status follows the database.
func NewChecker(pinger Pinger, interval time.Duration, logger *logger.Logger, services ...string) *Checker {
	return &Checker{
		server:   health.NewServer(),
		pinger:   pinger,
		services: services,
		interval: interval,
		logger:   logger,
	}
}

// Server returns the health server to register on the gRPC server.
func (c *Checker) Server() healthpb.HealthServer {
	return c.server
}

// Check pings once and updates the published status.
func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.Ping(ctx); err != nil {
		c.logger.Warn("Health checker: database unreachable", "error", err.Error())
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", st)
	for _, name := range c.services {
		c.server.SetServingStatus(name, st)
	}
	return st
}

// Run checks until ctx is done, then marks everything as not serving.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
