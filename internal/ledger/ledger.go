// Package ledger computes read-only revenue and payout summaries from
// already-fetched payment records. It performs no I/O.
package ledger

import (
	"strings"
	"time"

	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/shopspring/decimal"
)

// GeneralCoachingProgram is the bucket for payers without a program assignment.
const GeneralCoachingProgram = "General Coaching"

const UnknownClient = "Unknown Client"

// completed keeps COMPLETED payments that pass Validate. Invalid ones are
// returned as warnings instead of being summed.
func completed(payments []models.Payment) ([]models.Payment, Warnings) {
	valid := make([]models.Payment, 0, len(payments))
	warnings := Warnings{}
	for _, p := range payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if err := check(p); err != nil {
			warnings = append(warnings, err)
			continue
		}
		valid = append(valid, p)
	}
	return valid, warnings
}

func ComputeGlobalSummary(payments []models.Payment) (models.GlobalSummary, Warnings) {
	valid, warnings := completed(payments)

	summary := models.GlobalSummary{
		TotalRevenue:   decimal.Zero,
		PlatformProfit: decimal.Zero,
		CoachPayouts:   decimal.Zero,
	}
	for _, p := range valid {
		summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)
		summary.PlatformProfit = summary.PlatformProfit.Add(p.PlatformShare)
		summary.CoachPayouts = summary.CoachPayouts.Add(p.CoachShare)
	}
	return summary, warnings
}

// ComputeRevenuePerCoach sums coach shares per coach display name. Payments
// without a coach or whose coach name did not resolve are skipped.
func ComputeRevenuePerCoach(payments []models.Payment) ([]models.CoachRevenue, Warnings) {
	valid, warnings := completed(payments)

	acc := newBuckets()
	for _, p := range valid {
		if !p.HasCoach() {
			continue
		}
		name, ok := coachName(p)
		if !ok {
			continue
		}
		acc.add(name, p.CoachShare)
	}

	sorted := acc.sorted()
	out := make([]models.CoachRevenue, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, models.CoachRevenue{CoachName: b.key, Amount: b.amount})
	}
	return out, warnings
}

// ComputeRevenuePerProgram attributes the full amount of each payment to the
// payer's current program. The lookup reflects assignments at report time,
// not at payment time.
func ComputeRevenuePerProgram(payments []models.Payment, programByClient map[int64]string) ([]models.ProgramRevenue, Warnings) {
	valid, warnings := completed(payments)

	acc := newBuckets()
	for _, p := range valid {
		acc.add(programName(programByClient, p.PayerID), p.Amount)
	}
	return programRevenue(acc), warnings
}

// ComputePayoutTotals splits coach shares into not-yet-released and released.
func ComputePayoutTotals(payments []models.Payment) (models.PayoutTotals, Warnings) {
	valid, warnings := completed(payments)

	totals := models.PayoutTotals{Pending: decimal.Zero, Settled: decimal.Zero}
	for _, p := range valid {
		if !p.HasCoach() {
			continue
		}
		if p.IsPaidOut {
			totals.Settled = totals.Settled.Add(p.CoachShare)
		} else {
			totals.Pending = totals.Pending.Add(p.CoachShare)
		}
	}
	return totals, warnings
}

// ComputeMonthlyRevenue returns total revenue for the last months calendar
// months including the current one, oldest first.
func ComputeMonthlyRevenue(payments []models.Payment, now time.Time, months int) ([]models.MonthlyRevenue, Warnings) {
	valid, warnings := completed(payments)
	if months <= 0 {
		return []models.MonthlyRevenue{}, warnings
	}

	current := MonthStart(now)
	series := make([]models.MonthlyRevenue, months)
	index := make(map[int]int, months)
	for i := 0; i < months; i++ {
		month := current.AddDate(0, i-months+1, 0)
		series[i] = models.MonthlyRevenue{Month: month, Revenue: decimal.Zero}
		index[monthKey(month)] = i
	}

	for _, p := range valid {
		if i, ok := index[monthKey(p.CreatedAt.In(now.Location()))]; ok {
			series[i].Revenue = series[i].Revenue.Add(p.Amount)
		}
	}
	return series, warnings
}

// MonthStart returns the first instant of the calendar month containing t,
// in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthKey numbers calendar months so that equal months compare equal
// regardless of time zone or instant within the month.
func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func coachName(p models.Payment) (string, bool) {
	if p.CoachName == nil {
		return "", false
	}
	name := strings.TrimSpace(*p.CoachName)
	return name, name != ""
}

func clientName(p models.Payment) string {
	if p.PayerName != nil {
		if name := strings.TrimSpace(*p.PayerName); name != "" {
			return name
		}
	}
	if email := strings.TrimSpace(p.PayerEmail); email != "" {
		return email
	}
	return UnknownClient
}

func programName(programByClient map[int64]string, payerID int64) string {
	if name := strings.TrimSpace(programByClient[payerID]); name != "" {
		return name
	}
	return GeneralCoachingProgram
}

func programRevenue(acc *buckets) []models.ProgramRevenue {
	sorted := acc.sorted()
	out := make([]models.ProgramRevenue, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, models.ProgramRevenue{ProgramName: b.key, Amount: b.amount})
	}
	return out
}
