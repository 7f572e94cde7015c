package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/luken/goalsbingo-api/internal/services"
)

// respondError maps the service error taxonomy onto HTTP responses.
func respondError(c *fiber.Ctx, err error, message string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrPreconditionFailed):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrServiceUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	if message == "" {
		message = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
