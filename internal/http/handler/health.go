package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type healthPayload struct {
	OK      bool      `json:"ok"`
	Service string    `json:"service"`
	TS      time.Time `json:"ts"`
}

// HealthCheck godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} healthPayload
// @Router   /health [get]
func HealthCheck(serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(healthPayload{OK: true, Service: serviceName, TS: time.Now().UTC()})
	}
}
