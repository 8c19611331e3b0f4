package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/shopspring/decimal"
)

type CreatePaymentInput struct {
	Reference     string
	PayerID       int64
	CoachID       *int64
	PlanID        *int64
	Amount        decimal.Decimal
	CoachShare    decimal.Decimal
	PlatformShare decimal.Decimal
	Status        models.PaymentStatus
}

type UpdatePaymentInput struct {
	Status        models.PaymentStatus
	Amount        decimal.Decimal
	CoachShare    decimal.Decimal
	PlatformShare decimal.Decimal
}

type PaymentListFilter struct {
	Status  string
	PaidOut *bool
	CoachID *int64
	Limit   int
	Offset  int
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentSelect = `
	SELECT p.id, p.reference, p.amount, p.status, p.payer_id, payer.full_name, payer.email,
		   p.coach_id, COALESCE(NULLIF(TRIM(coach.full_name), ''), coach.email), p.plan_id,
		   p.coach_share, p.platform_share, p.is_paid_out, p.created_at
	FROM payments p
	JOIN users payer ON payer.id = p.payer_id
	LEFT JOIN users coach ON coach.id = p.coach_id
`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var payment models.Payment
	var payerEmail *string
	err := row.Scan(
		&payment.ID,
		&payment.Reference,
		&payment.Amount,
		&payment.Status,
		&payment.PayerID,
		&payment.PayerName,
		&payerEmail,
		&payment.CoachID,
		&payment.CoachName,
		&payment.PlanID,
		&payment.CoachShare,
		&payment.PlatformShare,
		&payment.IsPaidOut,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payerEmail != nil {
		payment.PayerEmail = *payerEmail
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		INSERT INTO payments (reference, payer_id, coach_id, plan_id, amount, coach_share, platform_share, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		input.Reference,
		input.PayerID,
		input.CoachID,
		input.PlanID,
		input.Amount,
		input.CoachShare,
		input.PlatformShare,
		input.Status,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID int64) (*models.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, paymentSelect+`WHERE p.id = $1`, paymentID))
}

// ListCompleted returns every completed payment with payer and coach names
// resolved, oldest first.
func (r *PaymentRepository) ListCompleted(ctx context.Context) ([]models.Payment, error) {
	query := paymentSelect + `
		WHERE p.status = 'COMPLETED'
		ORDER BY p.created_at, p.id
	`
	return r.list(ctx, query)
}

func (r *PaymentRepository) ListCompletedByCoach(ctx context.Context, coachID int64) ([]models.Payment, error) {
	query := paymentSelect + `
		WHERE p.status = 'COMPLETED' AND p.coach_id = $1
		ORDER BY p.created_at, p.id
	`
	return r.list(ctx, query, coachID)
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentListFilter) ([]models.Payment, int, error) {
	where, args := buildPaymentFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM payments p` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		paymentSelect, where, len(args)-1, len(args))

	payments, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func buildPaymentFilter(filter PaymentListFilter) (string, []any) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.PaidOut != nil {
		args = append(args, *filter.PaidOut)
		conditions = append(conditions, fmt.Sprintf("p.is_paid_out = $%d", len(args)))
	}
	if filter.CoachID != nil {
		args = append(args, *filter.CoachID)
		conditions = append(conditions, fmt.Sprintf("p.coach_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PaymentRepository) Update(ctx context.Context, paymentID int64, input UpdatePaymentInput) (*models.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, amount = $3, coach_share = $4, platform_share = $5
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, paymentID, input.Status, input.Amount, input.CoachShare, input.PlatformShare)
	if err := affectedOne(tag, err); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, paymentID)
}

// MarkPaidOut flips is_paid_out. Repeating it on a settled payment succeeds
// and leaves the row unchanged.
func (r *PaymentRepository) MarkPaidOut(ctx context.Context, paymentID int64) (*models.Payment, error) {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET is_paid_out = TRUE WHERE id = $1`, paymentID)
	if err := affectedOne(tag, err); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, paymentID)
}

func (r *PaymentRepository) MarkCoachPaidOut(ctx context.Context, coachID int64) (int64, error) {
	query := `
		UPDATE payments
		SET is_paid_out = TRUE
		WHERE coach_id = $1 AND status = 'COMPLETED' AND is_paid_out = FALSE
	`
	tag, err := r.db.Exec(ctx, query, coachID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, paymentID int64) error {
	return affectedOne(r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID))
}

func (r *PaymentRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
