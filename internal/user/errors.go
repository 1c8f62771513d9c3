package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/wichananm65/userdemo/internal/logger"
	"github.com/wichananm65/userdemo/internal/validation"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidTimePeriod = errors.New("invalid time period")
)

// NotFoundError reports a lookup of an id that is not stored. It matches
// ErrNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User not found by provided ID: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

const (
	msgInternal          = "internal server error"
	msgInvalidTimePeriod = "Please specify a valid time period using two dates. Ensure that the 'from' date occurs before the 'to' date."
)

type errorResponse struct {
	Message   string `json:"message"`
	TimeStamp string `json:"timeStamp"`
}

type validationResponse struct {
	Errors []string `json:"errors"`
}

// ErrorHandler renders errors escaping route handlers, such as unknown routes
// and recovered panics, in the same shape as domain errors.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}

func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var verr *validation.Error
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(validationResponse{Errors: verr.Messages()})
	case errors.Is(err, ErrNotFound):
		return writeMessage(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTimePeriod):
		return writeMessage(c, fiber.StatusBadRequest, msgInvalidTimePeriod)
	case errors.Is(err, ErrEmailExists):
		return writeMessage(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &ferr):
		return writeMessage(c, ferr.Code, ferr.Message)
	default:
		log.Errorw("request failed", "method", utils.CopyString(c.Method()), "path", utils.CopyString(c.Path()), "error", err)
		return writeMessage(c, fiber.StatusInternalServerError, msgInternal)
	}
}

func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorResponse{
		Message:   message,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	})
}
