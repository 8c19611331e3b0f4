package ledger

import (
	"time"

	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeCoachFinancials summarises one coach's completed payments. The
// monthly figure covers payments created on or after the first instant of
// now's calendar month.
func ComputeCoachFinancials(
	coachID int64,
	payments []models.Payment,
	programByClient map[int64]string,
	now time.Time,
) (models.CoachFinancials, Warnings) {
	owned := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if p.CoachID != nil && *p.CoachID == coachID {
			owned = append(owned, p)
		}
	}
	valid, warnings := completed(owned)

	monthStart := MonthStart(now)
	financials := models.CoachFinancials{
		TotalEarnings:   decimal.Zero,
		MonthlyEarnings: decimal.Zero,
		PendingPayouts:  decimal.Zero,
	}
	perClient := newBuckets()
	perProgram := newBuckets()

	for _, p := range valid {
		financials.TotalEarnings = financials.TotalEarnings.Add(p.CoachShare)
		if !p.CreatedAt.Before(monthStart) {
			financials.MonthlyEarnings = financials.MonthlyEarnings.Add(p.CoachShare)
		}
		if !p.IsPaidOut {
			financials.PendingPayouts = financials.PendingPayouts.Add(p.CoachShare)
		}
		perClient.add(clientName(p), p.CoachShare)
		perProgram.add(programName(programByClient, p.PayerID), p.CoachShare)
	}

	clients := perClient.sorted()
	financials.EarningsPerClient = make([]models.ClientEarnings, 0, len(clients))
	for _, b := range clients {
		financials.EarningsPerClient = append(financials.EarningsPerClient, models.ClientEarnings{ClientName: b.key, Amount: b.amount})
	}
	financials.EarningsPerProgram = programRevenue(perProgram)

	return financials, warnings
}
