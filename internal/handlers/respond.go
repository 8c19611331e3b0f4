package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

var errMissingActor = errors.New("missing actor")

// actorFromLocals reads the identity AuthRequired stored on the context.
func actorFromLocals(c *fiber.Ctx) (int64, string, error) {
	role, ok := c.Locals("role").(string)
	if !ok || role == "" {
		return 0, "", errMissingActor
	}
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, "", errMissingActor
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", errMissingActor
	}
	return userID, role, nil
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}

func parseIDParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// writeServiceError maps service errors to HTTP statuses. Unexpected errors
// are logged and answered with fallback.
func writeServiceError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRecord):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error(fallback,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
