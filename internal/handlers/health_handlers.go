package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles the health check endpoints.
type HealthHandlers struct {
	db *pgxpool.Pool
}

// NewHealthHandlers creates a new health handlers instance.
func NewHealthHandlers(db *pgxpool.Pool) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /health/ready
// Fails when the database cannot be reached.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
