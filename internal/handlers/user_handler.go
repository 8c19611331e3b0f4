package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/models"
	"go.uber.org/zap"
)

type userService interface {
	SetCoach(ctx context.Context, actorID int64, role string, userID int64, coachID *int64) (*models.User, error)
}

type setCoachRequest struct {
	CoachID *int64 `json:"coach_id"`
}

type UserHandler struct {
	service userService
	logger  *zap.Logger
}

func NewUserHandler(service userService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger.Named("user_handler")}
}

// SetCoach links a client to a coach. A null coach_id removes the link.
func (h *UserHandler) SetCoach(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req setCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CoachID != nil && *req.CoachID <= 0 {
		return badRequest(c, "coach_id must be a positive integer or null")
	}

	user, err := h.service.SetCoach(c.Context(), actorID, role, userID, req.CoachID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to update coach link")
	}
	return c.JSON(fiber.Map{"user": user})
}
