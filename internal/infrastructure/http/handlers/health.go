package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check is a named dependency probe used by the readiness handler.
type Check struct {
	Name string
	// Optional dependencies report "unhealthy" without failing readiness.
	Optional bool
	Ping     func(ctx context.Context) error
}

// MongoCheck pings the database behind the user and shift collections.
func MongoCheck(db *mongo.Database) Check {
	return Check{
		Name: "mongodb",
		Ping: func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}
}

// RedisCheck pings the idempotency store. Shift creation works without it,
// so it is optional.
func RedisCheck(rdb *redis.Client) Check {
	return Check{
		Name:     "redis",
		Optional: true,
		Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}

// ReadinessHandler handles GET /health/ready.
type ReadinessHandler struct {
	checks []Check
}

func NewReadinessHandler(checks ...Check) *ReadinessHandler {
	return &ReadinessHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	ready, degraded := true, false

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			if check.Optional {
				degraded = true
			} else {
				ready = false
			}
			continue
		}
		deps[check.Name] = dependencyStatus{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	switch {
	case !ready:
		status, code = "unavailable", http.StatusServiceUnavailable
	case degraded:
		status = "degraded"
	}

	return c.JSON(code, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
