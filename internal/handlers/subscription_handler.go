package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

type subscriptionService interface {
	Finalize(ctx context.Context, actorID int64, role string, userID int64, planID int64) (*services.FinalizeResult, error)
	GetMine(ctx context.Context, userID int64) (*models.SubscriptionDetail, error)
	UpdateStatus(ctx context.Context, role string, subscriptionID int64, status string) (*models.Subscription, error)
	List(ctx context.Context, role string) ([]models.Subscription, error)
}

type finalizeRequest struct {
	PlanID int64 `json:"plan_id"`
	UserID int64 `json:"user_id"`
}

type updateSubscriptionStatusRequest struct {
	Status string `json:"status"`
}

type SubscriptionHandler struct {
	service subscriptionService
	logger  *zap.Logger
}

func NewSubscriptionHandler(service subscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, logger: logger.Named("subscription_handler")}
}

// Finalize subscribes the caller. Admins may name another user_id.
func (h *SubscriptionHandler) Finalize(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	var req finalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PlanID <= 0 {
		return badRequest(c, "plan_id must be a positive integer")
	}
	userID := req.UserID
	if userID == 0 {
		userID = actorID
	}

	result, err := h.service.Finalize(c.Context(), actorID, role, userID, req.PlanID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to finalize subscription")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *SubscriptionHandler) Me(c *fiber.Ctx) error {
	actorID, _, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	detail, err := h.service.GetMine(c.Context(), actorID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch subscription")
	}
	return c.JSON(fiber.Map{"subscription": detail})
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	subscriptions, err := h.service.List(c.Context(), role)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to list subscriptions")
	}
	return c.JSON(fiber.Map{"subscriptions": subscriptions})
}

func (h *SubscriptionHandler) UpdateStatus(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	subscriptionID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid subscription id")
	}

	var req updateSubscriptionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	subscription, err := h.service.UpdateStatus(
		c.Context(),
		role,
		subscriptionID,
		strings.ToUpper(strings.TrimSpace(req.Status)),
	)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to update subscription")
	}
	return c.JSON(fiber.Map{"subscription": subscription})
}
