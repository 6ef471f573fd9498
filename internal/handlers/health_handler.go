package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// PingFunc reports whether a backing service is reachable.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping      PingFunc
	storage   string
	rateLimit PingFunc
}

// NewHealthHandler takes a nil ping for the memory store.
func NewHealthHandler(ping PingFunc, storage string) *HealthHandler {
	return &HealthHandler{ping: ping, storage: storage}
}

// WithRateLimitStore adds the shared limiter store to the check.
func (h *HealthHandler) WithRateLimitStore(ping PingFunc) *HealthHandler {
	h.rateLimit = ping
	return h
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := h.probe(c.UserContext(), h.ping)
	limitStatus := h.probe(c.UserContext(), h.rateLimit)

	code, status := fiber.StatusOK, "ok"
	if !healthy(dbStatus) || !healthy(limitStatus) {
		code, status = fiber.StatusServiceUnavailable, "degraded"
	}
	return c.Status(code).JSON(dto.OK("Server is running", dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   h.storage,
		RateLimit: limitStatus,
	}))
}

func (h *HealthHandler) probe(ctx context.Context, ping PingFunc) string {
	if ping == nil {
		return "n/a"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := ping(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "ok"
}

func healthy(status string) bool {
	return status == "ok" || status == "n/a"
}
