package middleware

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/ratelimit"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

var _ ratelimit.Limiter = (*PeerLimiter)(nil)

// maxTrackedPeers bounds the limiter table; full buckets are evicted beyond it.
const maxTrackedPeers = 10000

// Quota allows Count calls per Window from one peer. Spent calls are
// refilled evenly across the window.
type Quota struct {
	Count  int
	Window time.Duration
}

type peerKey struct {
	method string
	host   string
}

// PeerLimiter enforces per-method quotas keyed by the caller's IP address.
// Methods without a quota are never limited.
type PeerLimiter struct {
	quotas map[string]Quota

	mu       sync.Mutex
	limiters map[peerKey]*rate.Limiter
	now      func() time.Time
}

// NewPeerLimiter creates a limiter for quotas keyed by full gRPC method name.
func NewPeerLimiter(quotas map[string]Quota) *PeerLimiter {
	return &PeerLimiter{
		quotas:   quotas,
		limiters: make(map[peerKey]*rate.Limiter),
		now:      time.Now,
	}
}

// Limit implements ratelimit.Limiter.
func (l *PeerLimiter) Limit(ctx context.Context) error {
	method, ok := grpc.Method(ctx)
	if !ok {
		return nil
	}
	quota, ok := l.quotas[method]
	if !ok || quota.Count <= 0 || quota.Window <= 0 {
		return nil
	}

	key := peerKey{method: method, host: peerHost(ctx)}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedPeers {
			l.evictIdle(now)
		}
		lim = rate.NewLimiter(rate.Every(quota.Window/time.Duration(quota.Count)), quota.Count)
		l.limiters[key] = lim
	}

	if !lim.AllowN(now, 1) {
		return fmt.Errorf("limit of %d per %s exceeded", quota.Count, quota.Window)
	}
	return nil
}

func (l *PeerLimiter) evictIdle(now time.Time) {
	for k, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(l.limiters, k)
		}
	}
}

func peerHost(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

// RateLimit returns the unary interceptor that rejects calls over quota with
// codes.ResourceExhausted.
func RateLimit(limiter ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return ratelimit.UnaryServerInterceptor(limiter)
}
