package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

// ClearAllConfirmation must be sent in the X-Confirm-Clear header to wipe the
// payment table.
const ClearAllConfirmation = "CLEAR-ALL-PAYMENTS"

type financeService interface {
	GetOverview(ctx context.Context, role string) (*services.FinanceOverview, error)
	GetCoachFinancials(ctx context.Context, actorID int64, role string, coachID int64) (*services.CoachFinanceReport, error)
	ListPayments(ctx context.Context, role string, filter repository.PaymentListFilter) ([]models.Payment, int, error)
	UpdatePayment(ctx context.Context, role string, paymentID int64, input services.UpdatePaymentInput) (*models.Payment, error)
	MarkPaidOut(ctx context.Context, actorID int64, role string, paymentID int64) (*models.Payment, error)
	ReleaseCoachPayouts(ctx context.Context, actorID int64, role string, coachID int64) (int64, error)
	DeletePayment(ctx context.Context, actorID int64, role string, paymentID int64) error
	ClearAllPayments(ctx context.Context, actorID int64, role string) (int64, error)
}

type FinanceHandler struct {
	service financeService
	logger  *zap.Logger
}

func NewFinanceHandler(service financeService, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{service: service, logger: logger.Named("finance_handler")}
}

func (h *FinanceHandler) Overview(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	overview, err := h.service.GetOverview(c.Context(), role)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to build finance overview")
	}
	return c.JSON(overview)
}

func (h *FinanceHandler) CoachFinancials(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	coachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid coach id")
	}

	report, err := h.service.GetCoachFinancials(c.Context(), actorID, role, coachID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to build coach financials")
	}
	return c.JSON(report)
}

// MyFinancials serves the calling coach's own report.
func (h *FinanceHandler) MyFinancials(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	report, err := h.service.GetCoachFinancials(c.Context(), actorID, role, actorID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to build coach financials")
	}
	return c.JSON(report)
}

func (h *FinanceHandler) ListPayments(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	page, limit := parsePage(c.Query("page"), c.Query("limit"))
	filter := repository.PaymentListFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("paid_out"))) {
	case "":
	case "true":
		paidOut := true
		filter.PaidOut = &paidOut
	case "false":
		paidOut := false
		filter.PaidOut = &paidOut
	default:
		return badRequest(c, "paid_out must be true or false")
	}

	if raw := strings.TrimSpace(c.Query("coach_id")); raw != "" {
		coachID := int64(parsePositiveInt(raw, 0))
		if coachID == 0 {
			return badRequest(c, "coach_id must be a positive integer")
		}
		filter.CoachID = &coachID
	}

	payments, total, err := h.service.ListPayments(c.Context(), role, filter)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to list payments")
	}

	return c.JSON(fiber.Map{
		"payments":   payments,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *FinanceHandler) UpdatePayment(c *fiber.Ctx) error {
	_, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}

	var req services.UpdatePaymentInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		req.Status = &status
	}

	payment, err := h.service.UpdatePayment(c.Context(), role, paymentID, req)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to update payment")
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (h *FinanceHandler) MarkPaidOut(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}

	payment, err := h.service.MarkPaidOut(c.Context(), actorID, role, paymentID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to mark payment as paid out")
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (h *FinanceHandler) ReleaseCoachPayouts(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	coachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid coach id")
	}

	released, err := h.service.ReleaseCoachPayouts(c.Context(), actorID, role, coachID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to release coach payouts")
	}
	return c.JSON(fiber.Map{"coach_id": coachID, "released": released})
}

func (h *FinanceHandler) DeletePayment(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}

	if err := h.service.DeletePayment(c.Context(), actorID, role, paymentID); err != nil {
		return writeServiceError(c, h.logger, err, "Failed to delete payment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FinanceHandler) ClearAllPayments(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	if c.Get("X-Confirm-Clear") != ClearAllConfirmation {
		return c.Status(fiber.StatusPreconditionRequired).JSON(fiber.Map{
			"error": "Set X-Confirm-Clear: " + ClearAllConfirmation + " to delete every payment",
		})
	}

	deleted, err := h.service.ClearAllPayments(c.Context(), actorID, role)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to clear payments")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
