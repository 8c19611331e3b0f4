package ledger

import (
	"fmt"

	"github.com/saeid-a/CoachFinance/internal/models"
)

// InvalidRecordError reports a payment whose monetary fields break the split
// invariant or carry negative values.
type InvalidRecordError struct {
	PaymentID int64
	Field     string
	Reason    string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("payment %d: invalid %s: %s", e.PaymentID, e.Field, e.Reason)
}

// Warnings lists records excluded from a report.
type Warnings []*InvalidRecordError

func (w Warnings) Records() []models.RecordWarning {
	out := make([]models.RecordWarning, 0, len(w))
	for _, warning := range w {
		out = append(out, models.RecordWarning{PaymentID: warning.PaymentID, Reason: warning.Error()})
	}
	return out
}

// Validate checks the amount and split of a single payment. A failure is
// always an *InvalidRecordError.
func Validate(p models.Payment) error {
	if err := check(p); err != nil {
		return err
	}
	return nil
}

func check(p models.Payment) *InvalidRecordError {
	if !p.Amount.IsPositive() {
		return &InvalidRecordError{PaymentID: p.ID, Field: "amount", Reason: "must be greater than 0, got " + p.Amount.String()}
	}
	if p.CoachShare.IsNegative() {
		return &InvalidRecordError{PaymentID: p.ID, Field: "coach_share", Reason: "must not be negative, got " + p.CoachShare.String()}
	}
	if p.PlatformShare.IsNegative() {
		return &InvalidRecordError{PaymentID: p.ID, Field: "platform_share", Reason: "must not be negative, got " + p.PlatformShare.String()}
	}

	if !p.HasCoach() {
		if !p.CoachShare.IsZero() || !p.PlatformShare.Equal(p.Amount) {
			return &InvalidRecordError{
				PaymentID: p.ID,
				Field:     "split",
				Reason:    fmt.Sprintf("payment without coach must route %s to the platform, got coach %s platform %s", p.Amount, p.CoachShare, p.PlatformShare),
			}
		}
		return nil
	}

	if !p.CoachShare.Add(p.PlatformShare).Equal(p.Amount) {
		return &InvalidRecordError{
			PaymentID: p.ID,
			Field:     "split",
			Reason:    fmt.Sprintf("coach %s + platform %s != amount %s", p.CoachShare, p.PlatformShare, p.Amount),
		}
	}
	return nil
}
