package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentRefunded:
		return true
	default:
		return false
	}
}

// Payment is a single charge against a client. The coach/platform split is
// frozen when the payment is created and never follows later changes to the
// payer's coach link.
type Payment struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	PayerID       int64           `json:"payer_id"`
	PayerName     *string         `json:"payer_name,omitempty"`
	PayerEmail    string          `json:"payer_email,omitempty"`
	CoachID       *int64          `json:"coach_id"`
	CoachName     *string         `json:"coach_name,omitempty"`
	PlanID        *int64          `json:"plan_id"`
	CoachShare    decimal.Decimal `json:"coach_share"`
	PlatformShare decimal.Decimal `json:"platform_share"`
	IsPaidOut     bool            `json:"is_paid_out"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p Payment) HasCoach() bool {
	return p.CoachID != nil
}
