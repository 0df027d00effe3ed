package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdentityLookup returns the authenticated identity of a request, if any.
type IdentityLookup func(c *fiber.Ctx) (string, bool)

// RequestLogger logs one line per request and feeds request metrics. It must
// run outside the error middleware so the final status code is observed.
func RequestLogger(logger *zap.Logger, metrics *Metrics, identity IdentityLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, duration)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if identity != nil {
			if id, ok := identity(c); ok {
				fields = append(fields, zap.String("user_id", id))
			}
		}
		logger.Info("request", fields...)
		return err
	}
}
