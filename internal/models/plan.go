package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

type PaymentPlan struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Interval        string          `json:"interval"`
	Category        string          `json:"category"`
	PromoPercentage int             `json:"promo_percentage"`
	Features        []string        `json:"features"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies the promo percentage and rounds to cents.
func (p PaymentPlan) EffectivePrice() decimal.Decimal {
	if p.PromoPercentage <= 0 {
		return p.Price
	}
	discount := decimal.NewFromInt(int64(p.PromoPercentage)).Div(hundred)
	return p.Price.Mul(decimal.NewFromInt(1).Sub(discount)).Round(2)
}

// PeriodEnd returns the end of a billing period that starts at from.
func (p PaymentPlan) PeriodEnd(from time.Time) time.Time {
	if p.Interval == IntervalYear {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
