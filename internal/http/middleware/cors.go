package middleware

import (
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Content-Type, Authorization, X-Revalidate-Secret"
	corsMaxAge  = 86400
)

// CORS decorates every response with an allow-listed origin and answers
// preflight requests with 204. The echoed origin is the request Origin when
// listed, otherwise the first configured origin. No wildcard is ever sent.
func CORS(allowed []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if origin := pickOrigin(allowed, c.Get(fiber.HeaderOrigin)); origin != "" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, corsMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsHeaders)
		c.Set(fiber.HeaderAccessControlMaxAge, strconv.Itoa(corsMaxAge))
		c.Vary(fiber.HeaderOrigin)

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func pickOrigin(allowed []string, origin string) string {
	if origin != "" && slices.Contains(allowed, origin) {
		return origin
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return ""
}
