package handlers

import (
	"errors"

	"inventario/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError converts a service error into the JSON response and
// status code clients see. Every error ends up as a user-visible message;
// nothing propagates past the boundary.
func respondServiceError(c *fiber.Ctx, err error, message string) error {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verrs.FieldMap(),
		})
	case errors.Is(err, models.ErrStockOverflow),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrDuplicateUser):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

// currentUserID pulls the authenticated user's ID from the request context.
// AuthRequired stores it; an empty result means the middleware did not run.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
