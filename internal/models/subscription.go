package models

import "time"

const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionSuspended = "SUSPENDED"
)

func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionActive, SubscriptionExpired, SubscriptionCancelled, SubscriptionSuspended:
		return true
	default:
		return false
	}
}

type Subscription struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	PlanID           int64     `json:"plan_id"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GrantsAccess reports whether the subscription is usable at now.
func (s Subscription) GrantsAccess(now time.Time) bool {
	return s.Status == SubscriptionActive && s.CurrentPeriodEnd.After(now)
}

type SubscriptionDetail struct {
	Subscription
	Plan    *PaymentPlan `json:"plan,omitempty"`
	IsValid bool         `json:"is_valid"`
}
