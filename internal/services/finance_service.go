package services

import (
	"context"
	"fmt"
	"time"

	"github.com/saeid-a/CoachFinance/internal/ledger"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const overviewMonths = 12

// maxAmount is the first value a NUMERIC(12,2) column cannot hold.
var maxAmount = decimal.New(1, 10)

type financePaymentStore interface {
	ListCompleted(ctx context.Context) ([]models.Payment, error)
	ListCompletedByCoach(ctx context.Context, coachID int64) ([]models.Payment, error)
	List(ctx context.Context, filter repository.PaymentListFilter) ([]models.Payment, int, error)
	GetByID(ctx context.Context, paymentID int64) (*models.Payment, error)
	Update(ctx context.Context, paymentID int64, input repository.UpdatePaymentInput) (*models.Payment, error)
	MarkPaidOut(ctx context.Context, paymentID int64) (*models.Payment, error)
	MarkCoachPaidOut(ctx context.Context, coachID int64) (int64, error)
	Delete(ctx context.Context, paymentID int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type programNameLookup interface {
	ActiveProgramNames(ctx context.Context) (map[int64]string, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type FinanceOverview struct {
	Summary           models.GlobalSummary    `json:"summary"`
	RevenuePerCoach   []models.CoachRevenue   `json:"revenue_per_coach"`
	RevenuePerProgram []models.ProgramRevenue `json:"revenue_per_program"`
	Payouts           models.PayoutTotals     `json:"payouts"`
	MonthlyRevenue    []models.MonthlyRevenue `json:"monthly_revenue"`
	Warnings          []models.RecordWarning  `json:"warnings"`
}

type CoachFinanceReport struct {
	CoachID int64 `json:"coach_id"`
	models.CoachFinancials
	Warnings []models.RecordWarning `json:"warnings"`
}

type UpdatePaymentInput struct {
	Status *string          `json:"status" validate:"omitempty,oneof=PENDING COMPLETED REFUNDED"`
	Amount *decimal.Decimal `json:"amount"`
}

type FinanceService struct {
	payments financePaymentStore
	programs programNameLookup
	users    userReader
	logger   *zap.Logger
	now      func() time.Time
}

func NewFinanceService(
	payments *repository.PaymentRepository,
	assignments *repository.AssignmentRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		payments: payments,
		programs: assignments,
		users:    users,
		logger:   logger.Named("finance"),
		now:      time.Now,
	}
}

// GetOverview builds the admin revenue report from the current payment set.
// Every call reads fresh rows.
func (s *FinanceService) GetOverview(ctx context.Context, role string) (*FinanceOverview, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	payments, err := s.payments.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}
	programs, err := s.programs.ActiveProgramNames(ctx)
	if err != nil {
		return nil, err
	}

	summary, warnings := ledger.ComputeGlobalSummary(payments)
	perCoach, _ := ledger.ComputeRevenuePerCoach(payments)
	perProgram, _ := ledger.ComputeRevenuePerProgram(payments, programs)
	payouts, _ := ledger.ComputePayoutTotals(payments)
	monthly, _ := ledger.ComputeMonthlyRevenue(payments, s.now(), overviewMonths)

	s.logWarnings("overview", warnings)

	return &FinanceOverview{
		Summary:           summary,
		RevenuePerCoach:   perCoach,
		RevenuePerProgram: perProgram,
		Payouts:           payouts,
		MonthlyRevenue:    monthly,
		Warnings:          warnings.Records(),
	}, nil
}

// GetCoachFinancials lets a coach read their own figures and an admin read
// any coach's.
func (s *FinanceService) GetCoachFinancials(
	ctx context.Context,
	actorID int64,
	role string,
	coachID int64,
) (*CoachFinanceReport, error) {
	switch role {
	case models.RoleAdmin:
	case models.RoleCoach:
		if actorID != coachID {
			return nil, ErrUnauthorized
		}
	default:
		return nil, ErrUnauthorized
	}

	coach, err := s.users.GetByID(ctx, coachID)
	if err != nil {
		return nil, notFound(err, "coach")
	}
	if coach.Role != models.RoleCoach {
		return nil, fmt.Errorf("%w: coach", ErrNotFound)
	}

	payments, err := s.payments.ListCompletedByCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	programs, err := s.programs.ActiveProgramNames(ctx)
	if err != nil {
		return nil, err
	}

	financials, warnings := ledger.ComputeCoachFinancials(coachID, payments, programs, s.now())
	s.logWarnings("coach_financials", warnings, zap.Int64("coach_id", coachID))

	return &CoachFinanceReport{
		CoachID:         coachID,
		CoachFinancials: financials,
		Warnings:        warnings.Records(),
	}, nil
}

func (s *FinanceService) ListPayments(
	ctx context.Context,
	role string,
	filter repository.PaymentListFilter,
) ([]models.Payment, int, error) {
	if err := requireAdmin(role); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !models.PaymentStatus(filter.Status).Valid() {
		return nil, 0, validationError("status must be one of: PENDING, COMPLETED, REFUNDED")
	}
	return s.payments.List(ctx, filter)
}

// UpdatePayment applies an admin edit. An amount change rescales the frozen
// split proportionally. Nothing is written unless the edited record is valid.
func (s *FinanceService) UpdatePayment(
	ctx context.Context,
	role string,
	paymentID int64,
	input UpdatePaymentInput,
) (*models.Payment, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if input.Status == nil && input.Amount == nil {
		return nil, validationError("status or amount is required")
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	current, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "payment")
	}

	edited := *current
	if input.Status != nil {
		edited.Status = models.PaymentStatus(*input.Status)
	}
	if input.Amount != nil {
		edited.Amount = *input.Amount
		edited.CoachShare, edited.PlatformShare = ledger.Rescale(
			current.Amount,
			current.CoachShare,
			*input.Amount,
			current.HasCoach(),
		)
	}
	if err := ledger.Validate(edited); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	updated, err := s.payments.Update(ctx, paymentID, repository.UpdatePaymentInput{
		Status:        edited.Status,
		Amount:        edited.Amount,
		CoachShare:    edited.CoachShare,
		PlatformShare: edited.PlatformShare,
	})
	if err != nil {
		return nil, notFound(err, "payment")
	}
	return updated, nil
}

// validateAmount rejects amounts the payments table cannot store exactly.
// Sign is left to ledger.Validate.
func validateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return validationError("amount must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return validationError("amount must be less than %s", maxAmount.String())
	}
	return nil
}

// MarkPaidOut settles a single payment. Settling an already settled payment
// succeeds without changes.
func (s *FinanceService) MarkPaidOut(ctx context.Context, actorID int64, role string, paymentID int64) (*models.Payment, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	payment, err := s.payments.MarkPaidOut(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "payment")
	}

	s.logger.Info("payment marked paid out",
		zap.Int64("payment_id", paymentID),
		zap.Int64("actor_id", actorID),
	)
	return payment, nil
}

// ReleaseCoachPayouts settles every pending completed payment of one coach
// and returns how many rows changed.
func (s *FinanceService) ReleaseCoachPayouts(ctx context.Context, actorID int64, role string, coachID int64) (int64, error) {
	if err := requireAdmin(role); err != nil {
		return 0, err
	}

	coach, err := s.users.GetByID(ctx, coachID)
	if err != nil {
		return 0, notFound(err, "coach")
	}
	if coach.Role != models.RoleCoach {
		return 0, fmt.Errorf("%w: coach", ErrNotFound)
	}

	released, err := s.payments.MarkCoachPaidOut(ctx, coachID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("coach payouts released",
		zap.Int64("coach_id", coachID),
		zap.Int64("payments", released),
		zap.Int64("actor_id", actorID),
	)
	return released, nil
}

func (s *FinanceService) DeletePayment(ctx context.Context, actorID int64, role string, paymentID int64) error {
	if err := requireAdmin(role); err != nil {
		return err
	}

	if err := s.payments.Delete(ctx, paymentID); err != nil {
		return notFound(err, "payment")
	}

	s.logger.Info("payment deleted",
		zap.Int64("payment_id", paymentID),
		zap.Int64("actor_id", actorID),
	)
	return nil
}

// ClearAllPayments permanently removes every payment row.
func (s *FinanceService) ClearAllPayments(ctx context.Context, actorID int64, role string) (int64, error) {
	if err := requireAdmin(role); err != nil {
		return 0, err
	}

	deleted, err := s.payments.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("all payments cleared",
		zap.Int64("deleted", deleted),
		zap.Int64("actor_id", actorID),
	)
	return deleted, nil
}

func (s *FinanceService) logWarnings(report string, warnings ledger.Warnings, fields ...zap.Field) {
	if len(warnings) == 0 {
		return
	}
	ids := make([]int64, 0, len(warnings))
	for _, warning := range warnings {
		ids = append(ids, warning.PaymentID)
	}
	fields = append(fields, zap.String("report", report), zap.Int64s("payment_ids", ids))
	s.logger.Warn("payments excluded from report", fields...)
}
