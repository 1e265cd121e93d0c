package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"contentgw/internal/service"
)

const (
	cacheList = "public, s-maxage=60, stale-while-revalidate=300"
	cachePost = "public, s-maxage=300, stale-while-revalidate=3600"
)

// ListPosts godoc
// @Summary  List published posts
// @Tags     posts
// @Produce  json
// @Param    tag    query string false "exact tag to filter by"
// @Param    limit  query int    false "page size, at most 500" default(50)
// @Param    offset query int    false "items to skip"          default(0)
// @Success  200 {object} service.PostListResult
// @Failure  400 {object} errorPayload
// @Router   /posts [get]
func ListPosts(svc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultPageSize)))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset")
		}

		res, err := svc.List(c.UserContext(), service.ListQuery{
			Tag:    c.Query("tag"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return respondError(c, err, "Post not found")
		}
		c.Set(fiber.HeaderCacheControl, cacheList)
		return c.JSON(res)
	}
}

// GetPost godoc
// @Summary  Get a published post with its body
// @Tags     posts
// @Produce  json
// @Param    slug path string true "post slug"
// @Success  200 {object} model.Post
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /posts/{slug} [get]
func GetPost(svc service.PostService) fiber.Handler {
	list := ListPosts(svc)
	return func(c *fiber.Ctx) error {
		slug := wildcard(c)
		if slug == "" {
			return list(c)
		}
		post, err := svc.Get(c.UserContext(), slug)
		if err != nil {
			return respondError(c, err, "Post not found")
		}
		c.Set(fiber.HeaderCacheControl, cachePost)
		return c.JSON(post)
	}
}
