package handler

import (
	"time"

	"prepmate/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Success:   true,
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
