package services

import (
	"context"
	"strings"

	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type planStore interface {
	Create(ctx context.Context, input repository.PlanInput) (*models.PaymentPlan, error)
	Update(ctx context.Context, planID int64, input repository.PlanInput) (*models.PaymentPlan, error)
	Delete(ctx context.Context, planID int64) error
	GetByID(ctx context.Context, planID int64) (*models.PaymentPlan, error)
	ListActive(ctx context.Context) ([]models.PaymentPlan, error)
	ListAll(ctx context.Context) ([]models.PaymentPlan, error)
}

type PlanInput struct {
	Name            string          `json:"name" validate:"required,max=120"`
	Price           decimal.Decimal `json:"price"`
	Interval        string          `json:"interval" validate:"required,oneof=month year"`
	Category        string          `json:"category" validate:"max=60"`
	PromoPercentage int             `json:"promo_percentage" validate:"min=0,max=100"`
	Features        []string        `json:"features" validate:"dive,required"`
	IsActive        *bool           `json:"is_active"`
}

type PlanService struct {
	plans  planStore
	logger *zap.Logger
}

func NewPlanService(plans *repository.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{plans: plans, logger: logger.Named("plans")}
}

func (s *PlanService) ListActive(ctx context.Context) ([]models.PaymentPlan, error) {
	return s.plans.ListActive(ctx)
}

func (s *PlanService) ListAll(ctx context.Context, role string) ([]models.PaymentPlan, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	return s.plans.ListAll(ctx)
}

func (s *PlanService) Create(ctx context.Context, role string, input PlanInput) (*models.PaymentPlan, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	normalized, err := normalizePlanInput(input)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.Create(ctx, normalized)
	if err != nil {
		return nil, err
	}
	s.logger.Info("plan created", zap.Int64("plan_id", plan.ID), zap.String("name", plan.Name))
	return plan, nil
}

func (s *PlanService) Update(ctx context.Context, role string, planID int64, input PlanInput) (*models.PaymentPlan, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	normalized, err := normalizePlanInput(input)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.Update(ctx, planID, normalized)
	if err != nil {
		return nil, notFound(err, "plan")
	}
	return plan, nil
}

// Delete removes a plan. Payments that referenced it keep their amounts and
// lose the plan link. Plans with subscriptions cannot be removed.
func (s *PlanService) Delete(ctx context.Context, role string, planID int64) error {
	if err := requireAdmin(role); err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, planID); err != nil {
		if isForeignKeyViolation(err) {
			return validationError("plan has subscriptions; deactivate it instead")
		}
		return notFound(err, "plan")
	}
	s.logger.Info("plan deleted", zap.Int64("plan_id", planID))
	return nil
}

func normalizePlanInput(input PlanInput) (repository.PlanInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	for i, feature := range input.Features {
		input.Features[i] = strings.TrimSpace(feature)
	}

	if err := validateStruct(input); err != nil {
		return repository.PlanInput{}, err
	}
	if input.Price.IsNegative() {
		return repository.PlanInput{}, validationError("price must not be negative")
	}

	features := input.Features
	if features == nil {
		features = []string{}
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	return repository.PlanInput{
		Name:            input.Name,
		Price:           input.Price.Round(2),
		Interval:        input.Interval,
		Category:        input.Category,
		PromoPercentage: input.PromoPercentage,
		Features:        features,
		IsActive:        isActive,
	}, nil
}
