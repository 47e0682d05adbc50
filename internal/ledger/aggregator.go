// Package ledger turns raw financial records into the derived figures shown on
// the dashboard, marketplace, profile and group views. Every function here is a
// pure computation over a snapshot of records plus an explicit "now"; callers
// own fetching and caching.
package ledger

import (
	"math"
	"time"

	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/money"
)

// ComputeDashboardStats derives the per-user summary. A user with no records
// yields the zero value, which is a valid result, not an error; resolving
// whether the user exists at all is the caller's job.
func ComputeDashboardStats(userID string, memberships []models.Membership, contributions []models.Contribution, loans []models.Loan) models.DashboardStats {
	var stats models.DashboardStats

	for _, c := range contributions {
		if c.UserID == userID {
			stats.TotalSavings += c.Amount
		}
	}

	seen := make(map[string]struct{})
	for _, m := range memberships {
		if m.UserID != userID {
			continue
		}
		if _, ok := seen[m.GroupID]; ok {
			continue
		}
		seen[m.GroupID] = struct{}{}
		stats.ActiveGroups++
	}

	for _, l := range loans {
		open := l.Status == models.LoanStatusPending || l.Status == models.LoanStatusActive
		if l.LenderID == userID {
			stats.TotalAmountLent += l.Principal
			if open {
				stats.LoansGiven++
			}
		}
		if l.BorrowerID == userID {
			stats.TotalAmountBorrowed += l.Principal
			if open {
				stats.LoansReceived++
			}
		}
	}
	return stats
}

// ProfileCounters derives the lifetime loan counters for a profile: counts and
// principal sums over loans of every status.
func ProfileCounters(userID string, loans []models.Loan) (given, received int, lent, borrowed money.Amount) {
	for _, l := range loans {
		if l.LenderID == userID {
			given++
			lent += l.Principal
		}
		if l.BorrowerID == userID {
			received++
			borrowed += l.Principal
		}
	}
	return given, received, lent, borrowed
}

// ProgressPercent computes a group's funding progress. The result is not capped:
// over-funded groups read above 100. Target amounts are validated strictly
// positive at creation, so no zero guard lives here.
func ProgressPercent(group *models.SavingsGroup) float64 {
	return float64(group.CurrentAmount) / float64(group.TargetAmount) * 100
}

// MeanRating is the one-decimal mean of received scores, 0 when unrated.
func MeanRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Score
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

// EffectiveLoanStatus derives the status a loan reads as. An active loan with
// an unpaid installment past its due date reads as overdue; the stored status
// never drifts because overdue is recomputed on every read.
func EffectiveLoanStatus(loan *models.Loan, schedule []models.Installment, now time.Time) string {
	if loan.Status != models.LoanStatusActive {
		return loan.Status
	}
	for _, inst := range schedule {
		if !inst.Paid && inst.DueDate.Before(now) {
			return models.LoanStatusOverdue
		}
	}
	return models.LoanStatusActive
}

// InstallmentStatus derives the status of a single schedule entry.
func InstallmentStatus(inst *models.Installment, now time.Time) string {
	switch {
	case inst.Paid:
		return "paid"
	case inst.DueDate.Before(now):
		return models.LoanStatusOverdue
	default:
		return models.LoanStatusPending
	}
}

// Reconcile checks the reconciliation invariant for one group: the stored
// balance must equal the sum of its contributions.
func Reconcile(group *models.SavingsGroup, contributions []models.Contribution) models.ReconciliationView {
	var total money.Amount
	for _, c := range contributions {
		if c.GroupID == group.ID {
			total += c.Amount
		}
	}
	return models.ReconciliationView{
		GroupID:           group.ID,
		CurrentAmount:     group.CurrentAmount,
		ContributionTotal: total,
		Discrepancy:       group.CurrentAmount - total,
		Balanced:          group.CurrentAmount == total,
	}
}
