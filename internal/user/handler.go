package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/userdemo/internal/logger"
	"github.com/wichananm65/userdemo/internal/validation"
)

const (
	msgInvalidID   = "invalid user id"
	msgInvalidBody = "malformed request body"
)

type Handler struct {
	service   *Service
	validator *validation.Validator
	log       *logger.Logger
}

func NewHandler(service *Service, validator *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, validator: validator, log: log}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	// static paths first so they are not captured by /:id
	router.Get("/v1/users/all", h.getUsers)
	router.Get("/v1/users/byDateOfBirth", h.getUsersByDateOfBirth)

	router.Post("/v1/users", h.createUser)
	router.Get("/v1/users/:id", h.getUser)
	router.Put("/v1/users/:id", h.replaceUser)
	router.Patch("/v1/users/:id", h.patchUser)
	router.Delete("/v1/users/:id", h.deleteUser)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	payload := new(User)
	if err := c.BodyParser(payload); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, msgInvalidBody))
	}
	if err := payload.Validate(h.validator); err != nil {
		return h.fail(c, err)
	}

	created, err := h.service.Create(c.UserContext(), *payload)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	user, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(user)
}

func (h *Handler) replaceUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	payload := new(User)
	if err := c.BodyParser(payload); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, msgInvalidBody))
	}
	if err := payload.Validate(h.validator); err != nil {
		return h.fail(c, err)
	}

	updated, err := h.service.Replace(c.UserContext(), id, *payload)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(updated)
}

func (h *Handler) patchUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	payload := new(Update)
	if err := c.BodyParser(payload); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, msgInvalidBody))
	}
	if err := payload.Validate(h.validator); err != nil {
		return h.fail(c, err)
	}

	updated, err := h.service.Patch(c.UserContext(), id, *payload)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(updated)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}

	// SendStatus would write the status text as body
	c.Status(fiber.StatusOK)
	return nil
}

func (h *Handler) getUsersByDateOfBirth(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return h.fail(c, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return h.fail(c, err)
	}

	users, err := h.service.GetByDateOfBirth(c.UserContext(), from, to)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(nonNil(users))
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(nonNil(users))
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return writeError(c, h.log, err)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, msgInvalidID)
	}
	return id, nil
}

func parseDateQuery(c *fiber.Ctx, key string) (Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return Date{}, fiber.NewError(fiber.StatusBadRequest, "missing query parameter '"+key+"'")
	}

	date, err := ParseDate(raw)
	if err != nil {
		return Date{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return date, nil
}

func nonNil(users []User) []User {
	if users == nil {
		return []User{}
	}
	return users
}
