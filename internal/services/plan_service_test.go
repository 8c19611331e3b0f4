package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"go.uber.org/zap"
)

type stubPlanStore struct {
	lastInput repository.PlanInput
	deleteErr error
	updateErr error
	creates   int
}

func (s *stubPlanStore) Create(_ context.Context, input repository.PlanInput) (*models.PaymentPlan, error) {
	s.creates++
	s.lastInput = input
	return &models.PaymentPlan{ID: 1, Name: input.Name, Price: input.Price}, nil
}

func (s *stubPlanStore) Update(_ context.Context, planID int64, input repository.PlanInput) (*models.PaymentPlan, error) {
	s.lastInput = input
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.PaymentPlan{ID: planID, Name: input.Name}, nil
}

func (s *stubPlanStore) Delete(_ context.Context, _ int64) error {
	return s.deleteErr
}

func (s *stubPlanStore) GetByID(_ context.Context, planID int64) (*models.PaymentPlan, error) {
	return &models.PaymentPlan{ID: planID}, nil
}

func (s *stubPlanStore) ListActive(_ context.Context) ([]models.PaymentPlan, error) {
	return []models.PaymentPlan{}, nil
}

func (s *stubPlanStore) ListAll(_ context.Context) ([]models.PaymentPlan, error) {
	return []models.PaymentPlan{}, nil
}

func newTestPlanService(store *stubPlanStore) *PlanService {
	return &PlanService{plans: store, logger: zap.NewNop()}
}

func TestPlanServiceCreateNormalizesInput(t *testing.T) {
	store := &stubPlanStore{}
	service := newTestPlanService(store)

	plan, err := service.Create(context.Background(), models.RoleAdmin, PlanInput{
		Name:            "  Premium ",
		Price:           dec("49.999"),
		Interval:        models.IntervalMonth,
		PromoPercentage: 10,
		Features:        []string{" Weekly check-in "},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if plan.Name != "Premium" {
		t.Fatalf("expected trimmed name, got %q", plan.Name)
	}
	if !store.lastInput.Price.Equal(dec("50")) {
		t.Fatalf("expected price rounded to cents, got %s", store.lastInput.Price)
	}
	if !store.lastInput.IsActive {
		t.Fatalf("expected new plans to default to active")
	}
	if store.lastInput.Features[0] != "Weekly check-in" {
		t.Fatalf("expected trimmed feature, got %q", store.lastInput.Features[0])
	}
}

func TestPlanServiceRejectsInvalidInput(t *testing.T) {
	store := &stubPlanStore{}
	service := newTestPlanService(store)
	ctx := context.Background()

	cases := map[string]struct {
		input   PlanInput
		message string
	}{
		"missing name": {
			input:   PlanInput{Price: dec("10"), Interval: models.IntervalMonth},
			message: "name is required",
		},
		"bad interval": {
			input:   PlanInput{Name: "Basic", Price: dec("10"), Interval: "week"},
			message: "interval must be one of: month, year",
		},
		"promo above range": {
			input:   PlanInput{Name: "Basic", Price: dec("10"), Interval: models.IntervalYear, PromoPercentage: 120},
			message: "promo_percentage must be at most 100",
		},
		"negative promo": {
			input:   PlanInput{Name: "Basic", Price: dec("10"), Interval: models.IntervalYear, PromoPercentage: -1},
			message: "promo_percentage must be at least 0",
		},
		"negative price": {
			input:   PlanInput{Name: "Basic", Price: dec("-1"), Interval: models.IntervalMonth},
			message: "price must not be negative",
		},
		"blank feature": {
			input:   PlanInput{Name: "Basic", Price: dec("10"), Interval: models.IntervalMonth, Features: []string{"ok", "  "}},
			message: "is required",
		},
	}

	for name, tc := range cases {
		_, err := service.Create(ctx, models.RoleAdmin, tc.input)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("%s: expected message containing %q, got %q", name, tc.message, err.Error())
		}
	}
	if store.creates != 0 {
		t.Fatalf("expected no writes, got %d", store.creates)
	}
}

func TestPlanServiceRequiresAdminForWrites(t *testing.T) {
	service := newTestPlanService(&stubPlanStore{})
	ctx := context.Background()

	if _, err := service.Create(ctx, models.RoleCoach, PlanInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from Create, got %v", err)
	}
	if _, err := service.ListAll(ctx, models.RoleUser); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from ListAll, got %v", err)
	}
	if err := service.Delete(ctx, models.RoleUser, 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from Delete, got %v", err)
	}
}

func TestPlanServiceDeleteMapsErrors(t *testing.T) {
	ctx := context.Background()

	service := newTestPlanService(&stubPlanStore{deleteErr: pgx.ErrNoRows})
	if err := service.Delete(ctx, models.RoleAdmin, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	service = newTestPlanService(&stubPlanStore{deleteErr: &pgconn.PgError{Code: "23503"}})
	if err := service.Delete(ctx, models.RoleAdmin, 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for referenced plan, got %v", err)
	}
}

func TestPlanServiceUpdateMissingPlan(t *testing.T) {
	service := newTestPlanService(&stubPlanStore{updateErr: pgx.ErrNoRows})

	_, err := service.Update(context.Background(), models.RoleAdmin, 9, PlanInput{
		Name:     "Basic",
		Price:    dec("10"),
		Interval: models.IntervalMonth,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
