package query

import (
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
)

// LoanQueryService serves loan reads with their derived effective status:
// overdue is computed against the schedule at read time, never stored.
type LoanQueryService struct {
	loanRepo *repository.LoanRepository
}

func NewLoanQueryService(loanRepo *repository.LoanRepository) *LoanQueryService {
	return &LoanQueryService{loanRepo: loanRepo}
}

// ListLoans returns every loan the caller participates in.
func (s *LoanQueryService) ListLoans(q cqrs.ListLoansQuery) ([]models.LoanView, error) {
	loans, err := s.loanRepo.ListByUser(q.UserID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	views := make([]models.LoanView, 0, len(loans))
	for i := range loans {
		schedule, err := s.loanRepo.GetSchedule(loans[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, loanToView(&loans[i], schedule, now))
	}
	return views, nil
}

// GetLoan returns one loan with its schedule. Only the lender or borrower may
// see it.
func (s *LoanQueryService) GetLoan(q cqrs.GetLoanQuery) (*models.LoanView, error) {
	loan, err := s.loanRepo.GetByID(q.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.LenderID != q.RequestingUserID && loan.BorrowerID != q.RequestingUserID {
		return nil, ledger.ErrForbidden
	}
	schedule, err := s.loanRepo.GetSchedule(loan.ID)
	if err != nil {
		return nil, err
	}
	view := loanToView(loan, schedule, time.Now().UTC())
	return &view, nil
}

func loanToView(loan *models.Loan, schedule []models.Installment, now time.Time) models.LoanView {
	view := models.LoanView{
		ID:           loan.ID,
		ListingID:    loan.ListingID,
		LenderID:     loan.LenderID,
		BorrowerID:   loan.BorrowerID,
		Principal:    loan.Principal,
		InterestRate: loan.InterestRate,
		TermMonths:   loan.TermMonths,
		Status:       ledger.EffectiveLoanStatus(loan, schedule, now),
		AcceptedAt:   loan.AcceptedAt,
		DisbursedAt:  loan.DisbursedAt,
	}
	for i := range schedule {
		view.Schedule = append(view.Schedule, models.InstallmentView{
			Sequence: schedule[i].Sequence,
			Amount:   schedule[i].Amount,
			DueDate:  schedule[i].DueDate,
			Status:   ledger.InstallmentStatus(&schedule[i], now),
		})
	}
	return view
}
