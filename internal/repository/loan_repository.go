package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// LoanRepository handles loans, schedules and the two-sided ledger writes that
// move them through their lifecycle. Every state transition that touches more
// than one row runs in a single database transaction: a half-applied
// disbursement would corrupt the aggregator.
type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// AcceptListing matches an open listing and creates the pending loan in one
// transaction. First committer wins: the conditional UPDATE flips the listing
// open -> matched, and a second concurrent accept sees zero rows affected and
// gets ErrListingUnavailable.
func (r *LoanRepository) AcceptListing(loan *models.Loan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE listings SET status = 'matched' WHERE id = $1 AND status = 'open'
	`, loan.ListingID)
	if err != nil {
		return fmt.Errorf("failed to match listing: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ledger.ErrListingUnavailable
	}

	_, err = tx.Exec(`
		INSERT INTO loans (id, listing_id, lender_id, borrower_id, principal, interest_rate,
			term_months, status, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		loan.ID, loan.ListingID, loan.LenderID, loan.BorrowerID,
		loan.Principal, loan.InterestRate, loan.TermMonths,
		loan.Status, loan.AcceptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return tx.Commit()
}

func (r *LoanRepository) GetByID(id string) (*models.Loan, error) {
	query := `
		SELECT id, listing_id, lender_id, borrower_id, principal, interest_rate,
			term_months, status, accepted_at, disbursed_at
		FROM loans
		WHERE id = $1
	`
	var loan models.Loan
	var disbursedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&loan.ID, &loan.ListingID, &loan.LenderID, &loan.BorrowerID,
		&loan.Principal, &loan.InterestRate, &loan.TermMonths,
		&loan.Status, &loan.AcceptedAt, &disbursedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if disbursedAt.Valid {
		loan.DisbursedAt = &disbursedAt.Time
	}
	return &loan, nil
}

// ListByUser returns every loan the user participates in, either side.
func (r *LoanRepository) ListByUser(userID string) ([]models.Loan, error) {
	query := `
		SELECT id, listing_id, lender_id, borrower_id, principal, interest_rate,
			term_months, status, accepted_at, disbursed_at
		FROM loans
		WHERE lender_id = $1 OR borrower_id = $1
		ORDER BY accepted_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		var disbursedAt sql.NullTime
		if err := rows.Scan(
			&loan.ID, &loan.ListingID, &loan.LenderID, &loan.BorrowerID,
			&loan.Principal, &loan.InterestRate, &loan.TermMonths,
			&loan.Status, &loan.AcceptedAt, &disbursedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if disbursedAt.Valid {
			loan.DisbursedAt = &disbursedAt.Time
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// Disburse moves a pending loan to active and records the funds transfer:
// the status flip, BOTH ledger lines (lender's loan_given, borrower's
// loan_received) and the full installment schedule commit as one transaction
// or not at all.
func (r *LoanRepository) Disburse(loan *models.Loan, lenderTxn, borrowerTxn *models.Transaction, schedule []models.Installment, disbursedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE loans SET status = 'active', disbursed_at = $2 WHERE id = $1 AND status = 'pending'
	`, loan.ID, disbursedAt)
	if err != nil {
		return fmt.Errorf("failed to activate loan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ledger.ErrInvalidTransition
	}

	for _, txn := range []*models.Transaction{lenderTxn, borrowerTxn} {
		_, err = tx.Exec(`
			INSERT INTO transactions (id, user_id, type, amount, description, status, loan_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Description, txn.Status, loan.ID, txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrAtomicWrite, err)
		}
	}

	for _, inst := range schedule {
		_, err = tx.Exec(`
			INSERT INTO installments (loan_id, sequence, amount, due_date, paid)
			VALUES ($1, $2, $3, $4, FALSE)
		`, inst.LoanID, inst.Sequence, inst.Amount, inst.DueDate)
		if err != nil {
			return fmt.Errorf("failed to insert installment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrAtomicWrite, err)
	}
	return nil
}

// RecordPayment settles the earliest unpaid installment and writes the payment
// ledger line in one transaction. When the final installment is settled the
// loan flips to completed. Returns the settled installment and whether the
// loan completed.
func (r *LoanRepository) RecordPayment(loan *models.Loan, txn *models.Transaction, paidAt time.Time) (*models.Installment, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inst models.Installment
	err = tx.QueryRow(`
		UPDATE installments SET paid = TRUE, paid_at = $2
		WHERE loan_id = $1 AND sequence = (
			SELECT MIN(sequence) FROM installments WHERE loan_id = $1 AND paid = FALSE
		)
		RETURNING loan_id, sequence, amount, due_date
	`, loan.ID, paidAt).Scan(&inst.LoanID, &inst.Sequence, &inst.Amount, &inst.DueDate)
	if err == sql.ErrNoRows {
		return nil, false, ledger.ErrInvalidTransition
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to settle installment: %w", err)
	}
	inst.Paid = true
	inst.PaidAt = &paidAt

	txn.Amount = inst.Amount
	_, err = tx.Exec(`
		INSERT INTO transactions (id, user_id, type, amount, description, status, loan_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Description, txn.Status, loan.ID, txn.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ledger.ErrAtomicWrite, err)
	}

	var outstanding int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM installments WHERE loan_id = $1 AND paid = FALSE
	`, loan.ID).Scan(&outstanding)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count installments: %w", err)
	}

	completed := outstanding == 0
	if completed {
		if _, err := tx.Exec(`
			UPDATE loans SET status = 'completed' WHERE id = $1 AND status = 'active'
		`, loan.ID); err != nil {
			return nil, false, fmt.Errorf("failed to complete loan: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ledger.ErrAtomicWrite, err)
	}
	return &inst, completed, nil
}

// GetSchedule returns a loan's installments in sequence order.
func (r *LoanRepository) GetSchedule(loanID string) ([]models.Installment, error) {
	rows, err := r.db.Query(`
		SELECT loan_id, sequence, amount, due_date, paid, paid_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence
	`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	defer rows.Close()

	var schedule []models.Installment
	for rows.Next() {
		var inst models.Installment
		var paidAt sql.NullTime
		if err := rows.Scan(&inst.LoanID, &inst.Sequence, &inst.Amount, &inst.DueDate, &inst.Paid, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		if paidAt.Valid {
			inst.PaidAt = &paidAt.Time
		}
		schedule = append(schedule, inst)
	}
	return schedule, nil
}
