package repository

import (
	"context"
	"time"

	"github.com/saeid-a/CoachFinance/internal/models"
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, plan_id, status, current_period_end, created_at, updated_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var subscription models.Subscription
	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.PlanID,
		&subscription.Status,
		&subscription.CurrentPeriodEnd,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// Upsert activates the user's single subscription row on planID.
func (r *SubscriptionRepository) Upsert(
	ctx context.Context,
	userID int64,
	planID int64,
	periodEnd time.Time,
) (*models.Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, plan_id, status, current_period_end)
		VALUES ($1, $2, 'ACTIVE', $3)
		ON CONFLICT (user_id) DO UPDATE
		SET plan_id = EXCLUDED.plan_id,
			status = 'ACTIVE',
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, userID, planID, periodEnd))
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	return scanSubscription(r.db.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID))
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID int64, status string) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, subscriptionID, status))
}

func (r *SubscriptionRepository) List(ctx context.Context) ([]models.Subscription, error) {
	rows, err := r.db.Query(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscriptions := make([]models.Subscription, 0)
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, *subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subscriptions, nil
}
