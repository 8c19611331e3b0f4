package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachFinance/internal/ledger"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type planReader interface {
	GetByID(ctx context.Context, planID int64) (*models.PaymentPlan, error)
}

type subscriptionStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID int64, status string) (*models.Subscription, error)
	List(ctx context.Context) ([]models.Subscription, error)
}

type FinalizeResult struct {
	Subscription *models.Subscription `json:"subscription"`
	Payment      *models.Payment      `json:"payment,omitempty"`
}

type SubscriptionService struct {
	db                *pgxpool.Pool
	plans             planReader
	subscriptions     subscriptionStore
	users             userReader
	coachSharePercent decimal.Decimal
	logger            *zap.Logger
	now               func() time.Time
}

func NewSubscriptionService(
	db *pgxpool.Pool,
	plans *repository.PlanRepository,
	subscriptions *repository.SubscriptionRepository,
	users *repository.UserRepository,
	coachSharePercent decimal.Decimal,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		db:                db,
		plans:             plans,
		subscriptions:     subscriptions,
		users:             users,
		coachSharePercent: coachSharePercent,
		logger:            logger.Named("subscriptions"),
		now:               time.Now,
	}
}

// Finalize activates userID on planID and records the completed payment.
// The revenue split is frozen from the payer's coach link at this moment.
func (s *SubscriptionService) Finalize(
	ctx context.Context,
	actorID int64,
	role string,
	userID int64,
	planID int64,
) (*FinalizeResult, error) {
	switch role {
	case models.RoleAdmin:
	case models.RoleUser:
		if actorID != userID {
			return nil, ErrUnauthorized
		}
	default:
		return nil, ErrUnauthorized
	}
	if planID <= 0 {
		return nil, validationError("plan_id is required")
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plan")
	}
	if !plan.IsActive {
		return nil, validationError("plan is not active")
	}

	payer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if payer.Role != models.RoleUser {
		return nil, validationError("only clients can subscribe")
	}

	amount := plan.EffectivePrice()
	periodEnd := plan.PeriodEnd(s.now().UTC())

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSubscriptionRepo := repository.NewSubscriptionRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	subscription, err := txSubscriptionRepo.Upsert(ctx, userID, planID, periodEnd)
	if err != nil {
		return nil, err
	}

	result := &FinalizeResult{Subscription: subscription}
	if amount.IsPositive() {
		coachShare, platformShare := ledger.Split(amount, s.coachSharePercent, payer.CoachID != nil)
		result.Payment, err = txPaymentRepo.Create(ctx, repository.CreatePaymentInput{
			Reference:     uuid.NewString(),
			PayerID:       userID,
			CoachID:       payer.CoachID,
			PlanID:        &plan.ID,
			Amount:        amount,
			CoachShare:    coachShare,
			PlatformShare: platformShare,
			Status:        models.PaymentCompleted,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Int64("user_id", userID),
		zap.Int64("plan_id", planID),
		zap.String("amount", amount.StringFixed(2)),
	}
	if result.Payment != nil {
		fields = append(fields, zap.Int64("payment_id", result.Payment.ID))
	}
	s.logger.Info("subscription finalized", fields...)

	return result, nil
}

func (s *SubscriptionService) GetMine(ctx context.Context, userID int64) (*models.SubscriptionDetail, error) {
	subscription, err := s.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "subscription")
	}

	plan, err := s.plans.GetByID(ctx, subscription.PlanID)
	if err != nil {
		return nil, notFound(err, "plan")
	}

	return &models.SubscriptionDetail{
		Subscription: *subscription,
		Plan:         plan,
		IsValid:      subscription.GrantsAccess(s.now()),
	}, nil
}

// UpdateStatus lets an admin move a subscription to any status.
func (s *SubscriptionService) UpdateStatus(
	ctx context.Context,
	role string,
	subscriptionID int64,
	status string,
) (*models.Subscription, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if !models.ValidSubscriptionStatus(status) {
		return nil, validationError("status must be one of: ACTIVE, EXPIRED, CANCELLED, SUSPENDED")
	}

	subscription, err := s.subscriptions.UpdateStatus(ctx, subscriptionID, status)
	if err != nil {
		return nil, notFound(err, "subscription")
	}
	return subscription, nil
}

func (s *SubscriptionService) List(ctx context.Context, role string) ([]models.Subscription, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	return s.subscriptions.List(ctx)
}
