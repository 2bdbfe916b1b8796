package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type loggerKey struct{}

// RequestIDLogMiddleware puts a request-scoped logger into the user context.
// The logger carries the request ID and, when present, the acting user, so
// service-level log lines can be joined back to the access log.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var attrs []any
		if rid, _ := c.Locals("requestid").(string); rid != "" {
			attrs = append(attrs, "request_id", rid)
		}
		if user := strings.TrimSpace(c.Get(HeaderUserEmail)); user != "" {
			attrs = append(attrs, "user", user)
		}
		if len(attrs) == 0 {
			return c.Next()
		}

		l := slog.Default().With(attrs...)
		c.SetUserContext(context.WithValue(c.UserContext(), loggerKey{}, l))
		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or the default logger outside a
// request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
