package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/wichananm65/userdemo/internal/logger"
)

// RequestLogger writes one structured entry per request. Errors returned by
// the chain are rendered through the app error handler first so the logged
// status is the one sent to the client.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []any{
			"method", utils.CopyString(c.Method()),
			"path", utils.CopyString(c.Path()),
			"status", status,
			"duration", time.Since(start),
			"request_id", utils.CopyString(GetRequestID(c)),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
		return nil
	}
}
