package repository

import (
	"context"

	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/shopspring/decimal"
)

type PlanInput struct {
	Name            string
	Price           decimal.Decimal
	Interval        string
	Category        string
	PromoPercentage int
	Features        []string
	IsActive        bool
}

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, price, interval, category, promo_percentage, features, is_active, created_at, updated_at`

func scanPlan(row rowScanner) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.Interval,
		&plan.Category,
		&plan.PromoPercentage,
		&plan.Features,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}
	return &plan, nil
}

func (r *PlanRepository) Create(ctx context.Context, input PlanInput) (*models.PaymentPlan, error) {
	query := `
		INSERT INTO payment_plans (name, price, interval, category, promo_percentage, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + planColumns
	return scanPlan(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		input.Price,
		input.Interval,
		input.Category,
		input.PromoPercentage,
		input.Features,
		input.IsActive,
	))
}

func (r *PlanRepository) Update(ctx context.Context, planID int64, input PlanInput) (*models.PaymentPlan, error) {
	query := `
		UPDATE payment_plans
		SET name = $2,
			price = $3,
			interval = $4,
			category = $5,
			promo_percentage = $6,
			features = $7,
			is_active = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planColumns
	return scanPlan(r.db.QueryRow(
		ctx,
		query,
		planID,
		input.Name,
		input.Price,
		input.Interval,
		input.Category,
		input.PromoPercentage,
		input.Features,
		input.IsActive,
	))
}

func (r *PlanRepository) Delete(ctx context.Context, planID int64) error {
	return affectedOne(r.db.Exec(ctx, `DELETE FROM payment_plans WHERE id = $1`, planID))
}

func (r *PlanRepository) GetByID(ctx context.Context, planID int64) (*models.PaymentPlan, error) {
	return scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM payment_plans WHERE id = $1`, planID))
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]models.PaymentPlan, error) {
	return r.list(ctx, `SELECT `+planColumns+` FROM payment_plans WHERE is_active = TRUE ORDER BY price, id`)
}

func (r *PlanRepository) ListAll(ctx context.Context) ([]models.PaymentPlan, error) {
	return r.list(ctx, `SELECT `+planColumns+` FROM payment_plans ORDER BY created_at DESC, id DESC`)
}

func (r *PlanRepository) list(ctx context.Context, query string, args ...any) ([]models.PaymentPlan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.PaymentPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}
