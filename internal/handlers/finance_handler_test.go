package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachFinance/internal/ledger"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/saeid-a/CoachFinance/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubFinanceService struct {
	overview     *services.FinanceOverview
	report       *services.CoachFinanceReport
	payments     []models.Payment
	total        int
	err          error
	cleared      int64
	clearCalls   int
	lastRole     string
	lastActorID  int64
	lastCoachID  int64
	lastID       int64
	lastFilter   repository.PaymentListFilter
	lastUpdate   services.UpdatePaymentInput
	releaseCount int64
}

func (s *stubFinanceService) GetOverview(_ context.Context, role string) (*services.FinanceOverview, error) {
	s.lastRole = role
	return s.overview, s.err
}

func (s *stubFinanceService) GetCoachFinancials(_ context.Context, actorID int64, role string, coachID int64) (*services.CoachFinanceReport, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastCoachID = coachID
	return s.report, s.err
}

func (s *stubFinanceService) ListPayments(_ context.Context, role string, filter repository.PaymentListFilter) ([]models.Payment, int, error) {
	s.lastRole = role
	s.lastFilter = filter
	return s.payments, s.total, s.err
}

func (s *stubFinanceService) UpdatePayment(_ context.Context, role string, paymentID int64, input services.UpdatePaymentInput) (*models.Payment, error) {
	s.lastRole = role
	s.lastID = paymentID
	s.lastUpdate = input
	if s.err != nil {
		return nil, s.err
	}
	return &models.Payment{ID: paymentID}, nil
}

func (s *stubFinanceService) MarkPaidOut(_ context.Context, actorID int64, role string, paymentID int64) (*models.Payment, error) {
	s.lastActorID = actorID
	s.lastID = paymentID
	if s.err != nil {
		return nil, s.err
	}
	return &models.Payment{ID: paymentID, IsPaidOut: true}, nil
}

func (s *stubFinanceService) ReleaseCoachPayouts(_ context.Context, actorID int64, role string, coachID int64) (int64, error) {
	s.lastActorID = actorID
	s.lastCoachID = coachID
	return s.releaseCount, s.err
}

func (s *stubFinanceService) DeletePayment(_ context.Context, actorID int64, role string, paymentID int64) error {
	s.lastActorID = actorID
	s.lastID = paymentID
	return s.err
}

func (s *stubFinanceService) ClearAllPayments(_ context.Context, actorID int64, role string) (int64, error) {
	s.clearCalls++
	s.lastActorID = actorID
	return s.cleared, s.err
}

func withActor(role string, userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func newFinanceApp(service *stubFinanceService, role string, userID string) *fiber.App {
	handler := NewFinanceHandler(service, zap.NewNop())

	app := fiber.New()
	app.Use(withActor(role, userID))
	app.Get("/finance/overview", handler.Overview)
	app.Get("/finance/coaches/:id", handler.CoachFinancials)
	app.Get("/coach/finance", handler.MyFinancials)
	app.Get("/payments", handler.ListPayments)
	app.Put("/payments/:id", handler.UpdatePayment)
	app.Post("/payments/:id/payout", handler.MarkPaidOut)
	app.Post("/coaches/:id/payouts", handler.ReleaseCoachPayouts)
	app.Delete("/payments/:id", handler.DeletePayment)
	app.Delete("/payments", handler.ClearAllPayments)
	return app
}

func TestOverviewReturnsSummary(t *testing.T) {
	service := &stubFinanceService{overview: &services.FinanceOverview{
		Summary: models.GlobalSummary{
			TotalRevenue:   decimal.NewFromInt(350),
			PlatformProfit: decimal.NewFromInt(110),
			CoachPayouts:   decimal.NewFromInt(240),
		},
		RevenuePerCoach: []models.CoachRevenue{{CoachName: "A", Amount: decimal.NewFromInt(240)}},
	}}
	app := newFinanceApp(service, "admin", "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/finance/overview", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Summary struct {
			TotalRevenue   string `json:"total_revenue"`
			PlatformProfit string `json:"platform_profit"`
			CoachPayouts   string `json:"coach_payouts"`
		} `json:"summary"`
		RevenuePerCoach []map[string]any `json:"revenue_per_coach"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Summary.TotalRevenue != "350" || payload.Summary.CoachPayouts != "240" {
		t.Fatalf("unexpected summary: %+v", payload.Summary)
	}
	if len(payload.RevenuePerCoach) != 1 {
		t.Fatalf("expected 1 coach row, got %d", len(payload.RevenuePerCoach))
	}
	if service.lastRole != "admin" {
		t.Fatalf("expected admin role forwarded, got %q", service.lastRole)
	}
}

func TestFinanceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", services.ErrUnauthorized, http.StatusForbidden},
		{"not found", fmt.Errorf("%w: payment", services.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: status is required", services.ErrValidation), http.StatusBadRequest},
		{"invalid record", fmt.Errorf("%w: %w", services.ErrInvalidRecord, &ledger.InvalidRecordError{PaymentID: 4, Field: "amount", Reason: "must be greater than 0"}), http.StatusUnprocessableEntity},
		{"unexpected", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		service := &stubFinanceService{err: tc.err}
		app := newFinanceApp(service, "admin", "1")

		req := httptest.NewRequest(http.MethodPut, "/payments/4", strings.NewReader(`{"amount": -5}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestUpdatePaymentParsesBody(t *testing.T) {
	service := &stubFinanceService{}
	app := newFinanceApp(service, "admin", "1")

	req := httptest.NewRequest(http.MethodPut, "/payments/9", strings.NewReader(`{"status":" refunded ","amount":"120.50"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != 9 {
		t.Fatalf("expected payment 9, got %d", service.lastID)
	}
	if service.lastUpdate.Status == nil || *service.lastUpdate.Status != "REFUNDED" {
		t.Fatalf("expected normalized status, got %+v", service.lastUpdate.Status)
	}
	if service.lastUpdate.Amount == nil || !service.lastUpdate.Amount.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("unexpected amount: %+v", service.lastUpdate.Amount)
	}
}

func TestListPaymentsParsesFilters(t *testing.T) {
	service := &stubFinanceService{payments: []models.Payment{{ID: 1}}, total: 41}
	app := newFinanceApp(service, "admin", "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/payments?status=completed&paid_out=false&coach_id=7&page=3&limit=20", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	filter := service.lastFilter
	if filter.Status != "COMPLETED" || filter.Limit != 20 || filter.Offset != 40 {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if filter.PaidOut == nil || *filter.PaidOut {
		t.Fatalf("expected paid_out=false, got %+v", filter.PaidOut)
	}
	if filter.CoachID == nil || *filter.CoachID != 7 {
		t.Fatalf("expected coach 7, got %+v", filter.CoachID)
	}

	var payload struct {
		Pagination models.PaginationMeta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Pagination.TotalPages != 3 || payload.Pagination.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", payload.Pagination)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/payments?paid_out=maybe", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad paid_out, got %d", resp.StatusCode)
	}
}

func TestClearAllPaymentsRequiresConfirmation(t *testing.T) {
	service := &stubFinanceService{cleared: 5}
	app := newFinanceApp(service, "admin", "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/payments", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d", resp.StatusCode)
	}
	if service.clearCalls != 0 {
		t.Fatalf("expected no clear without confirmation")
	}

	req := httptest.NewRequest(http.MethodDelete, "/payments", nil)
	req.Header.Set("X-Confirm-Clear", ClearAllConfirmation)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Deleted != 5 || service.clearCalls != 1 {
		t.Fatalf("unexpected clear result: %+v calls=%d", payload, service.clearCalls)
	}
}

func TestPayoutAndDeleteRoutes(t *testing.T) {
	service := &stubFinanceService{releaseCount: 2}
	app := newFinanceApp(service, "admin", "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/payments/12/payout", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK || service.lastID != 12 {
		t.Fatalf("unexpected payout response %d for id %d", resp.StatusCode, service.lastID)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/coaches/7/payouts", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK || service.lastCoachID != 7 {
		t.Fatalf("unexpected release response %d for coach %d", resp.StatusCode, service.lastCoachID)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/payments/12", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/payments/abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestMyFinancialsUsesCallerID(t *testing.T) {
	service := &stubFinanceService{report: &services.CoachFinanceReport{CoachID: 7}}
	app := newFinanceApp(service, "coach", "7")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/coach/finance", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 7 || service.lastCoachID != 7 || service.lastRole != "coach" {
		t.Fatalf("unexpected forwarding: actor=%d coach=%d role=%q", service.lastActorID, service.lastCoachID, service.lastRole)
	}
}

func TestFinanceHandlersRejectMissingActor(t *testing.T) {
	service := &stubFinanceService{}
	app := newFinanceApp(service, "admin", "not-a-number")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/finance/overview", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
