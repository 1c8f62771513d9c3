package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = fiber.HeaderXRequestID
	requestIDKey    = "requestid"
)

// RequestID tags every request with a UUID, reusing an inbound X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     RequestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
