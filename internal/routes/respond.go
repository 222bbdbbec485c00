package routes

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

// respondError translates an error into the API's error shape. Known
// application errors map to their status with their message; anything
// else becomes a generic 500 so internals never leak.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code != apperrors.CodeInternalError {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"success": false,
			"error":   appErr.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
