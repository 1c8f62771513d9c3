package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Auth requires an HS256 bearer token signed with secret.
func Auth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		Claims:        &jwt.RegisteredClaims{},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "unauthorized: " + err.Error(),
				"timeStamp": time.Now().UTC().Format(time.RFC3339),
			})
		},
	})
}

// Subject returns the subject of the token accepted by Auth, or "".
func Subject(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ""
	}
	return claims.Subject
}
