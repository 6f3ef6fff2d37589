package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/response"
)

// HealthHandler reports process and dependency status.
type HealthHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	backend   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. pool and rdb may be nil when the
// corresponding dependency is not configured.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, backend string) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb, backend: backend, startTime: time.Now()}
}

type healthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Store      string            `json:"store"`
	Uptime     string            `json:"uptime"`
	Goroutines int               `json:"goroutines"`
	Deps       map[string]string `json:"dependencies"`
}

// Health godoc
// GET /health
// Always answers 200 so the bank stays reachable in degraded mode; dependency problems
// are reported per dependency.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{}
	status := "ok"
	if h.pool != nil {
		deps["postgres"] = "ok"
		if err := h.pool.Ping(ctx); err != nil {
			deps["postgres"] = err.Error()
			status = "degraded"
		}
	}
	if h.rdb != nil {
		deps["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = err.Error()
			status = "degraded"
		}
	}

	response.Success(c, http.StatusOK, healthStatus{
		Status:     status,
		Version:    config.Version,
		Store:      h.backend,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Deps:       deps,
	})
}
