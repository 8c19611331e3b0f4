package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Split divides amount between coach and platform. Without a coach the
// platform keeps everything. The coach share is rounded to cents and the
// platform takes the remainder so the parts always sum to amount.
func Split(amount decimal.Decimal, coachPercent decimal.Decimal, hasCoach bool) (coachShare, platformShare decimal.Decimal) {
	if !hasCoach || !coachPercent.IsPositive() {
		return decimal.Zero, amount
	}
	if coachPercent.GreaterThan(hundred) {
		coachPercent = hundred
	}
	coachShare = amount.Mul(coachPercent).Div(hundred).Round(2)
	return coachShare, amount.Sub(coachShare)
}

// Rescale keeps the coach's proportion of a payment when its amount is
// edited.
func Rescale(oldAmount, oldCoachShare, newAmount decimal.Decimal, hasCoach bool) (coachShare, platformShare decimal.Decimal) {
	if !hasCoach || !oldAmount.IsPositive() {
		return decimal.Zero, newAmount
	}
	coachShare = newAmount.Mul(oldCoachShare).Div(oldAmount).Round(2)
	return coachShare, newAmount.Sub(coachShare)
}
