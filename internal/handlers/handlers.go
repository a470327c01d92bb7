package handlers

import (
	"errors"

	"bookbazaar/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// callerID extracts the authenticated caller identity set by the JWT
// middleware. An empty string means no identity is available.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// statusForError maps the shared error taxonomy onto HTTP status codes.
// Anything unclassified is treated as a bad request from the caller's
// side; the message text is surfaced as-is.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrMissingAddress):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrRemote):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}

// errorJSON renders an error response in the shared shape.
func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
