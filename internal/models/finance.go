package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GlobalSummary struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PlatformProfit decimal.Decimal `json:"platform_profit"`
	CoachPayouts   decimal.Decimal `json:"coach_payouts"`
}

type CoachRevenue struct {
	CoachName string          `json:"coach_name"`
	Amount    decimal.Decimal `json:"amount"`
}

type ProgramRevenue struct {
	ProgramName string          `json:"program_name"`
	Amount      decimal.Decimal `json:"amount"`
}

type ClientEarnings struct {
	ClientName string          `json:"client_name"`
	Amount     decimal.Decimal `json:"amount"`
}

type CoachFinancials struct {
	TotalEarnings      decimal.Decimal  `json:"total_earnings"`
	MonthlyEarnings    decimal.Decimal  `json:"monthly_earnings"`
	PendingPayouts     decimal.Decimal  `json:"pending_payouts"`
	EarningsPerClient  []ClientEarnings `json:"earnings_per_client"`
	EarningsPerProgram []ProgramRevenue `json:"earnings_per_program"`
}

type PayoutTotals struct {
	Pending decimal.Decimal `json:"pending"`
	Settled decimal.Decimal `json:"settled"`
}

type MonthlyRevenue struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RecordWarning describes a payment that was left out of a report.
type RecordWarning struct {
	PaymentID int64  `json:"payment_id"`
	Reason    string `json:"reason"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
