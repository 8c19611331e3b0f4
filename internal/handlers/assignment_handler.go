package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

type assignmentService interface {
	CreateProgram(ctx context.Context, actorID int64, role string, input services.CreateProgramInput) (*models.Program, error)
	ListPrograms(ctx context.Context, actorID int64, role string) ([]models.Program, error)
	Assign(ctx context.Context, actorID int64, role string, userID int64, programID int64) (*models.Assignment, error)
	CurrentAssignment(ctx context.Context, actorID int64, role string, userID int64) (*models.Assignment, error)
}

type assignRequest struct {
	UserID    int64 `json:"user_id"`
	ProgramID int64 `json:"program_id"`
}

type AssignmentHandler struct {
	service assignmentService
	logger  *zap.Logger
}

func NewAssignmentHandler(service assignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{service: service, logger: logger.Named("assignment_handler")}
}

func (h *AssignmentHandler) CreateProgram(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	var req services.CreateProgramInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	program, err := h.service.CreateProgram(c.Context(), actorID, role, req)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to create program")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"program": program})
}

func (h *AssignmentHandler) ListPrograms(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	programs, err := h.service.ListPrograms(c.Context(), actorID, role)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to list programs")
	}
	return c.JSON(fiber.Map{"programs": programs})
}

func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID <= 0 || req.ProgramID <= 0 {
		return badRequest(c, "user_id and program_id must be positive integers")
	}

	assignment, err := h.service.Assign(c.Context(), actorID, role, req.UserID, req.ProgramID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to assign program")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": assignment})
}

func (h *AssignmentHandler) Current(c *fiber.Ctx) error {
	actorID, role, err := actorFromLocals(c)
	if err != nil {
		return invalidToken(c)
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	assignment, err := h.service.CurrentAssignment(c.Context(), actorID, role, userID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch assignment")
	}
	return c.JSON(fiber.Map{"assignment": assignment})
}
