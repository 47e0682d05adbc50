package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/events"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
	"github.com/susucircle/susu-backend/internal/utils"
)

// LoanCommandService drives the loan lifecycle:
// open listing -> accepted (pending loan) -> active -> completed.
type LoanCommandService struct {
	loanRepo    *repository.LoanRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
	ratingRepo  *repository.RatingRepository
	publisher   *events.Publisher
}

func NewLoanCommandService(
	loanRepo *repository.LoanRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	ratingRepo *repository.RatingRepository,
	publisher *events.Publisher,
) *LoanCommandService {
	return &LoanCommandService{
		loanRepo:    loanRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		ratingRepo:  ratingRepo,
		publisher:   publisher,
	}
}

// AcceptListing matches an open listing and creates the pending loan. For an
// offer the accepter borrows on the poster's terms; for a request the accepter
// lends on the terms supplied with the command. Concurrent accepts are
// serialised by the repository: exactly one wins, the rest get
// ErrListingUnavailable.
func (s *LoanCommandService) AcceptListing(cmd cqrs.AcceptListingCommand) (*models.Loan, error) {
	listing, err := s.listingRepo.GetByID(cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != models.ListingStatusOpen {
		return nil, ledger.ErrListingUnavailable
	}
	if listing.PosterID == cmd.AccepterID {
		return nil, ledger.ErrForbidden
	}
	if _, err := s.userRepo.GetByID(cmd.AccepterID); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ID:         utils.GenerateID("lon"),
		ListingID:  listing.ID,
		Principal:  listing.Amount,
		Status:     models.LoanStatusPending,
		AcceptedAt: time.Now().UTC(),
	}
	switch listing.Kind {
	case models.ListingKindOffer:
		loan.LenderID = listing.PosterID
		loan.BorrowerID = cmd.AccepterID
		loan.InterestRate = listing.InterestRate
		loan.TermMonths = listing.TermMonths
	case models.ListingKindRequest:
		loan.LenderID = cmd.AccepterID
		loan.BorrowerID = listing.PosterID
		loan.InterestRate = cmd.InterestRate
		loan.TermMonths = cmd.TermMonths
	default:
		return nil, fmt.Errorf("unknown listing kind %q", listing.Kind)
	}
	if loan.InterestRate < 0 || loan.TermMonths <= 0 {
		return nil, fmt.Errorf("acceptance requires a non-negative rate and a positive term")
	}

	if err := s.loanRepo.AcceptListing(loan); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.LoanEventsStream, events.LoanAccepted, events.LoanAcceptedEvent{
		LoanID:     loan.ID,
		ListingID:  loan.ListingID,
		LenderID:   loan.LenderID,
		BorrowerID: loan.BorrowerID,
		Principal:  loan.Principal,
	}); err != nil {
		log.Printf("Failed to publish loan.accepted event: %v", err)
	}
	return loan, nil
}

// DisburseLoan records the funds transfer that moves a pending loan to active.
// Both ledger lines and the repayment schedule are written atomically with the
// status flip; a failure leaves the loan pending and the whole disbursement is
// retried, never resumed.
func (s *LoanCommandService) DisburseLoan(cmd cqrs.DisburseLoanCommand) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(cmd.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.LenderID != cmd.LenderID {
		return nil, ledger.ErrForbidden
	}
	if loan.Status != models.LoanStatusPending {
		return nil, ledger.ErrInvalidTransition
	}

	borrower, err := s.userRepo.GetByID(loan.BorrowerID)
	if err != nil {
		return nil, err
	}
	lender, err := s.userRepo.GetByID(loan.LenderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lenderTxn := &models.Transaction{
		ID:          utils.GenerateID("tan"),
		UserID:      loan.LenderID,
		Type:        models.TransactionLoanGiven,
		Amount:      loan.Principal,
		Description: fmt.Sprintf("Loan disbursed to %s", borrower.Name),
		Status:      models.TransactionStatusCompleted,
		CreatedAt:   now,
	}
	borrowerTxn := &models.Transaction{
		ID:          utils.GenerateID("tan"),
		UserID:      loan.BorrowerID,
		Type:        models.TransactionLoanReceived,
		Amount:      loan.Principal,
		Description: fmt.Sprintf("Loan received from %s", lender.Name),
		Status:      models.TransactionStatusCompleted,
		CreatedAt:   now,
	}
	schedule := ledger.BuildSchedule(loan.ID, loan.Principal, loan.InterestRate, loan.TermMonths, now)

	if err := s.loanRepo.Disburse(loan, lenderTxn, borrowerTxn, schedule, now); err != nil {
		return nil, err
	}
	loan.Status = models.LoanStatusActive
	loan.DisbursedAt = &now

	if err := s.publisher.Publish(context.Background(), events.LoanEventsStream, events.LoanDisbursed, events.LoanDisbursedEvent{
		LoanID:     loan.ID,
		LenderID:   loan.LenderID,
		BorrowerID: loan.BorrowerID,
		Principal:  loan.Principal,
	}); err != nil {
		log.Printf("Failed to publish loan.disbursed event: %v", err)
	}
	return loan, nil
}

// RecordPayment settles the borrower's next installment. Settling the final
// installment completes the loan.
func (s *LoanCommandService) RecordPayment(cmd cqrs.RecordPaymentCommand) (*models.Installment, error) {
	loan, err := s.loanRepo.GetByID(cmd.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.BorrowerID != cmd.BorrowerID {
		return nil, ledger.ErrForbidden
	}
	if loan.Status != models.LoanStatusActive {
		return nil, ledger.ErrInvalidTransition
	}

	lender, err := s.userRepo.GetByID(loan.LenderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &models.Transaction{
		ID:          utils.GenerateID("tan"),
		UserID:      loan.BorrowerID,
		Type:        models.TransactionPayment,
		Description: fmt.Sprintf("Loan repayment to %s", lender.Name),
		Status:      models.TransactionStatusCompleted,
		CreatedAt:   now,
	}
	installment, completed, err := s.loanRepo.RecordPayment(loan, txn, now)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.LoanEventsStream, events.LoanPaymentRecorded, events.LoanPaymentRecordedEvent{
		LoanID:     loan.ID,
		LenderID:   loan.LenderID,
		BorrowerID: loan.BorrowerID,
		Amount:     installment.Amount,
		Completed:  completed,
	}); err != nil {
		log.Printf("Failed to publish loan.payment_recorded event: %v", err)
	}
	return installment, nil
}

// RateLoan records a counterparty score once a loan has completed. Each party
// may rate the other exactly once per loan.
func (s *LoanCommandService) RateLoan(cmd cqrs.RateLoanCommand) (*models.Rating, error) {
	loan, err := s.loanRepo.GetByID(cmd.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != models.LoanStatusCompleted {
		return nil, ledger.ErrInvalidTransition
	}

	var rateeID string
	switch cmd.RaterID {
	case loan.LenderID:
		rateeID = loan.BorrowerID
	case loan.BorrowerID:
		rateeID = loan.LenderID
	default:
		return nil, ledger.ErrForbidden
	}
	if cmd.Score < 1 || cmd.Score > 5 {
		return nil, fmt.Errorf("score must be between 1 and 5")
	}

	rating := &models.Rating{
		LoanID:    loan.ID,
		RaterID:   cmd.RaterID,
		RateeID:   rateeID,
		Score:     cmd.Score,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		return nil, err
	}
	return rating, nil
}
