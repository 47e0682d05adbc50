package ledger

import (
	"testing"
	"time"

	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/money"
)

func TestComputeDashboardStatsZeroRecords(t *testing.T) {
	stats := ComputeDashboardStats("usr-empty", nil, nil, nil)
	if stats != (models.DashboardStats{}) {
		t.Errorf("expected all-zero stats for user with no records, got %+v", stats)
	}
}

func TestComputeDashboardStats(t *testing.T) {
	memberships := []models.Membership{
		{GroupID: "grp-1", UserID: "usr-1"},
		{GroupID: "grp-2", UserID: "usr-1"},
		{GroupID: "grp-2", UserID: "usr-1"}, // duplicate row must not double count
		{GroupID: "grp-3", UserID: "usr-2"},
	}
	contributions := []models.Contribution{
		{GroupID: "grp-1", UserID: "usr-1", Amount: 100000},
		{GroupID: "grp-2", UserID: "usr-1", Amount: 145000},
		{GroupID: "grp-3", UserID: "usr-2", Amount: 999999},
	}
	loans := []models.Loan{
		{LenderID: "usr-1", BorrowerID: "usr-9", Principal: 50000, Status: models.LoanStatusActive},
		{LenderID: "usr-1", BorrowerID: "usr-8", Principal: 100000, Status: models.LoanStatusActive},
		{LenderID: "usr-7", BorrowerID: "usr-1", Principal: 80000, Status: models.LoanStatusActive},
		// completed loans count towards lifetime totals but not open counts
		{LenderID: "usr-1", BorrowerID: "usr-6", Principal: 25000, Status: models.LoanStatusCompleted},
	}

	stats := ComputeDashboardStats("usr-1", memberships, contributions, loans)

	if stats.TotalSavings != 245000 {
		t.Errorf("TotalSavings = %d, want 245000", stats.TotalSavings)
	}
	if stats.ActiveGroups != 2 {
		t.Errorf("ActiveGroups = %d, want 2", stats.ActiveGroups)
	}
	if stats.LoansGiven != 2 {
		t.Errorf("LoansGiven = %d, want 2", stats.LoansGiven)
	}
	if stats.LoansReceived != 1 {
		t.Errorf("LoansReceived = %d, want 1", stats.LoansReceived)
	}
	if stats.TotalAmountLent != 175000 {
		t.Errorf("TotalAmountLent = %d, want 175000", stats.TotalAmountLent)
	}
	if stats.TotalAmountBorrowed != 80000 {
		t.Errorf("TotalAmountBorrowed = %d, want 80000", stats.TotalAmountBorrowed)
	}
}

func TestProfileCountersLifetime(t *testing.T) {
	loans := []models.Loan{
		{LenderID: "usr-1", BorrowerID: "usr-2", Principal: 50000, Status: models.LoanStatusCompleted},
		{LenderID: "usr-1", BorrowerID: "usr-3", Principal: 100000, Status: models.LoanStatusActive},
		{LenderID: "usr-4", BorrowerID: "usr-1", Principal: 80000, Status: models.LoanStatusDefaulted},
	}
	given, received, lent, borrowed := ProfileCounters("usr-1", loans)
	if given != 2 || received != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", given, received)
	}
	if lent != 150000 || borrowed != 80000 {
		t.Errorf("sums = (%d, %d), want (150000, 80000)", lent, borrowed)
	}
}

func TestProgressPercent(t *testing.T) {
	group := &models.SavingsGroup{TargetAmount: 500000, CurrentAmount: 245000}
	if got := ProgressPercent(group); got != 49.0 {
		t.Errorf("ProgressPercent = %v, want 49.0", got)
	}

	// Over-funded groups read above 100.
	group.CurrentAmount = 600000
	if got := ProgressPercent(group); got != 120.0 {
		t.Errorf("ProgressPercent over-funded = %v, want 120.0", got)
	}
}

func TestProgressPercentMonotone(t *testing.T) {
	group := &models.SavingsGroup{TargetAmount: 800000}
	prev := ProgressPercent(group)
	for _, amount := range []money.Amount{5000, 7500, 20000, 1} {
		group.CurrentAmount += amount
		next := ProgressPercent(group)
		if next <= prev {
			t.Fatalf("progress not monotone: %v after %v", next, prev)
		}
		prev = next
	}
}

func TestMeanRating(t *testing.T) {
	if got := MeanRating(nil); got != 0 {
		t.Errorf("MeanRating(nil) = %v, want 0", got)
	}
	ratings := []models.Rating{{Score: 5}, {Score: 4}, {Score: 5}}
	if got := MeanRating(ratings); got != 4.7 {
		t.Errorf("MeanRating = %v, want 4.7", got)
	}
}

func TestEffectiveLoanStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	loan := &models.Loan{Status: models.LoanStatusActive}

	tests := []struct {
		name     string
		loan     *models.Loan
		schedule []models.Installment
		want     string
	}{
		{
			name: "active with future installments",
			loan: loan,
			schedule: []models.Installment{
				{DueDate: now.AddDate(0, 1, 0)},
			},
			want: models.LoanStatusActive,
		},
		{
			name: "active with missed installment reads overdue",
			loan: loan,
			schedule: []models.Installment{
				{DueDate: now.AddDate(0, -1, 0)},
				{DueDate: now.AddDate(0, 1, 0)},
			},
			want: models.LoanStatusOverdue,
		},
		{
			name: "paid past installment is not overdue",
			loan: loan,
			schedule: []models.Installment{
				{DueDate: now.AddDate(0, -1, 0), Paid: true},
				{DueDate: now.AddDate(0, 1, 0)},
			},
			want: models.LoanStatusActive,
		},
		{
			name: "pending loan keeps stored status",
			loan: &models.Loan{Status: models.LoanStatusPending},
			want: models.LoanStatusPending,
		},
		{
			name: "completed loan keeps stored status",
			loan: &models.Loan{Status: models.LoanStatusCompleted},
			schedule: []models.Installment{
				{DueDate: now.AddDate(0, -2, 0), Paid: true},
			},
			want: models.LoanStatusCompleted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLoanStatus(tt.loan, tt.schedule, now); got != tt.want {
				t.Errorf("EffectiveLoanStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	group := &models.SavingsGroup{ID: "grp-1", CurrentAmount: 245000}
	contributions := []models.Contribution{
		{GroupID: "grp-1", Amount: 100000},
		{GroupID: "grp-1", Amount: 145000},
		{GroupID: "grp-other", Amount: 50000},
	}
	view := Reconcile(group, contributions)
	if !view.Balanced {
		t.Errorf("expected balanced group, got discrepancy %d", view.Discrepancy)
	}

	group.CurrentAmount = 250000
	view = Reconcile(group, contributions)
	if view.Balanced {
		t.Error("expected unbalanced group")
	}
	if view.Discrepancy != 5000 {
		t.Errorf("Discrepancy = %d, want 5000", view.Discrepancy)
	}
}
