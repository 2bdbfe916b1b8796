package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses by endpoint. Search
// results go stale quickly as jobs are taken; anything naming a person stays
// private. Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}

		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			c.Set("Cache-Control", "no-store")
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"

		case path == "/v1/jobs" || path == "/v1/jobs/nearby" || path == "/v1/jobs/search":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/users/") || strings.HasPrefix(path, "/v1/applicants/"):
			ttl = "private, no-store"

		case strings.HasSuffix(path, "/applications") || strings.HasSuffix(path, "/payments"):
			ttl = "private, no-store"

		case strings.HasPrefix(path, "/v1/jobs/"):
			ttl = "public, max-age=120"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
