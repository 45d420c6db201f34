package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pinger is what the health checker needs from the pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports database reachability for the /health endpoint.
type HealthChecker struct {
	pool    Pinger
	timeout time.Duration
}

func NewHealthChecker(pool *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{pool: pool, timeout: 2 * time.Second}
}

// Check pings the database under a short deadline so a hung store cannot
// stall the health endpoint.
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.pool.Ping(ctx)
}
