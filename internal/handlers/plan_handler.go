package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

type planService interface {
	ListActive(ctx context.Context) ([]models.PaymentPlan, error)
	ListAll(ctx context.Context, role string) ([]models.PaymentPlan, error)
	Create(ctx context.Context, role string, input services.PlanInput) (*models.PaymentPlan, error)
	Update(ctx context.Context, role string, planID int64, input services.PlanInput) (*models.PaymentPlan, error)
	Delete(ctx context.Context, role string, planID int64) error
}

type planResponse struct {
	models.PaymentPlan
	EffectivePrice string `json:"effective_price"`
}

type PlanHandler struct {
	service planService
	logger  *zap.Logger
}

func NewPlanHandler(service planService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{service: service, logger: logger.Named("plan_handler")}
}

func (h *PlanHandler) ListActive(c *fiber.Ctx) error {
	plans, err := h.service.ListActive(c.Context())
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to list plans")
	}
	return c.JSON(fiber.Map{"plans": newPlanResponses(plans)})
}

func (h *PlanHandler) ListAll(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	plans, err := h.service.ListAll(c.Context(), role)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to list plans")
	}
	return c.JSON(fiber.Map{"plans": newPlanResponses(plans)})
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	var req services.PlanInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.service.Create(c.Context(), role, req)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to create plan")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plan": newPlanResponse(*plan)})
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid plan id")
	}

	var req services.PlanInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.service.Update(c.Context(), role, planID, req)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to update plan")
	}
	return c.JSON(fiber.Map{"plan": newPlanResponse(*plan)})
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid plan id")
	}

	if err := h.service.Delete(c.Context(), role, planID); err != nil {
		return writeServiceError(c, h.logger, err, "Failed to delete plan")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func newPlanResponse(plan models.PaymentPlan) planResponse {
	return planResponse{
		PaymentPlan:    plan,
		EffectivePrice: plan.EffectivePrice().StringFixed(2),
	}
}

func newPlanResponses(plans []models.PaymentPlan) []planResponse {
	responses := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, newPlanResponse(plan))
	}
	return responses
}
