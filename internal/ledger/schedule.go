package ledger

import (
	"math"
	"time"

	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/money"
)

// InterestOn computes simple interest in pesewas, half-up rounded.
func InterestOn(principal money.Amount, ratePercent float64) money.Amount {
	return money.Amount(math.Round(float64(principal) * ratePercent / 100))
}

// BuildSchedule generates the repayment schedule for a disbursed loan: the
// total repayable (principal + simple interest) split evenly across the term,
// one installment per month from the disbursement date, with the rounding
// remainder carried on the final installment so the schedule sums exactly.
func BuildSchedule(loanID string, principal money.Amount, ratePercent float64, termMonths int, disbursedAt time.Time) []models.Installment {
	if termMonths <= 0 {
		return nil
	}
	total := principal + InterestOn(principal, ratePercent)
	per := total / money.Amount(termMonths)

	schedule := make([]models.Installment, termMonths)
	for i := 0; i < termMonths; i++ {
		amount := per
		if i == termMonths-1 {
			amount = total - per*money.Amount(termMonths-1)
		}
		schedule[i] = models.Installment{
			LoanID:   loanID,
			Sequence: i + 1,
			Amount:   amount,
			DueDate:  disbursedAt.AddDate(0, i+1, 0),
		}
	}
	return schedule
}

// ScheduleOutstanding reports how many installments remain unpaid.
func ScheduleOutstanding(schedule []models.Installment) int {
	n := 0
	for _, inst := range schedule {
		if !inst.Paid {
			n++
		}
	}
	return n
}
