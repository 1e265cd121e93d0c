package handler

import (
	"github.com/gofiber/fiber/v2"

	"contentgw/internal/service"
)

// RevalidateSecretHeader carries the shared revalidation secret.
const RevalidateSecretHeader = "X-Revalidate-Secret"

// Revalidate godoc
// @Summary  Trigger a site rebuild
// @Tags     revalidate
// @Produce  json
// @Param    X-Revalidate-Secret header string false "shared secret"
// @Param    secret              query  string false "shared secret, used when the header is absent"
// @Success  200 {object} service.RevalidateResult
// @Failure  401 {object} errorPayload
// @Failure  502 {object} hookFailurePayload
// @Router   /revalidate [post]
func Revalidate(svc service.RevalidateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Get(RevalidateSecretHeader)
		if secret == "" {
			secret = c.Query("secret")
		}
		res, err := svc.Trigger(c.UserContext(), secret)
		if err != nil {
			return respondError(c, err, "Not found")
		}
		c.Set(fiber.HeaderCacheControl, cacheNoStore)
		return c.JSON(res)
	}
}
