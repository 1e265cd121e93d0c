package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentgw/internal/service"
)

// Deps are the collaborators the routes need.
type Deps struct {
	ServiceName string
	Posts       service.PostService
	Assets      service.AssetService
	Revalidate  service.RevalidateService
	// Gatherer backs /metrics; nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches the gateway routes to app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.ServiceName))

	app.Get("/posts", ListPosts(d.Posts))
	app.Get("/posts/*", GetPost(d.Posts))

	app.Get("/img/*", Image(d.Assets))
	app.Get("/file/*", File(d.Assets))
	app.Get("/asset/*", Asset(d.Assets))

	app.Post("/revalidate", Revalidate(d.Revalidate))

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
}

// wildcard returns the unescaped remainder matched by "*", without a trailing slash.
func wildcard(c *fiber.Ctx) string {
	raw := c.Params("*")
	for len(raw) > 0 && raw[len(raw)-1] == '/' {
		raw = raw[:len(raw)-1]
	}
	if p, err := url.PathUnescape(raw); err == nil {
		return p
	}
	return raw
}
