package handler

import (
	"github.com/gofiber/fiber/v2"

	"contentgw/internal/service"
	"contentgw/internal/transform"
)

const (
	cacheFile  = "public, s-maxage=86400, stale-while-revalidate=604800"
	cacheAsset = "public, s-maxage=31536000, immutable"
)

// Image godoc
// @Summary  Redirect to a transformed image
// @Tags     binary
// @Param    path path  string true  "image path below images/"
// @Param    w    query int    false "width"
// @Param    h    query int    false "height"
// @Param    f    query string false "format" Enums(webp, avif, jpeg, png)
// @Param    q    query int    false "quality 1-100"
// @Param    fit  query string false "fit mode" Enums(cover, contain, scale-down, crop, pad)
// @Success  302
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /img/{path} [get]
func Image(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := transform.Parse(func(key string) string { return c.Query(key) })
		if err != nil {
			return respondError(c, err, "Image not found")
		}
		target, err := svc.ImageURL(c.UserContext(), wildcard(c), req)
		if err != nil {
			return respondError(c, err, "Image not found")
		}
		return c.Redirect(target, fiber.StatusFound)
	}
}

// File godoc
// @Summary  Download a file
// @Tags     binary
// @Param    path path string true "file path below files/"
// @Success  200
// @Failure  404 {object} errorPayload
// @Router   /file/{path} [get]
func File(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obj, err := svc.File(c.UserContext(), wildcard(c))
		if err != nil {
			return respondError(c, err, "File not found")
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+obj.Filename+`"`)
		return sendObject(c, obj, cacheFile)
	}
}

// Asset godoc
// @Summary  Serve a site asset
// @Tags     binary
// @Param    path path string true "asset path below assets/"
// @Success  200
// @Failure  404 {object} errorPayload
// @Router   /asset/{path} [get]
func Asset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obj, err := svc.Asset(c.UserContext(), wildcard(c))
		if err != nil {
			return respondError(c, err, "Asset not found")
		}
		return sendObject(c, obj, cacheAsset)
	}
}

// sendObject streams obj; fasthttp closes the body once it is written.
func sendObject(c *fiber.Ctx, obj *service.Object, cacheControl string) error {
	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, cacheControl)
	if etag := obj.Info.HTTPETag(); etag != "" {
		c.Set(fiber.HeaderETag, etag)
	}
	size := -1
	if obj.Info.Size > 0 {
		size = int(obj.Info.Size)
	}
	return c.SendStream(obj.Body, size)
}
