package repository

import (
	"database/sql"
	"fmt"

	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// ListingRepository handles marketplace listings against the PostgreSQL
// write store.
type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, kind, poster_id, amount, interest_rate, term_months,
			description, purpose, repayment_plan, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query,
		listing.ID, listing.Kind, listing.PosterID, listing.Amount,
		listing.InterestRate, listing.TermMonths,
		listing.Description, listing.Purpose, listing.RepaymentPlan,
		listing.Status, listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetByID(id string) (*models.Listing, error) {
	query := `
		SELECT id, kind, poster_id, amount, interest_rate, term_months,
			description, purpose, repayment_plan, status, created_at
		FROM listings
		WHERE id = $1
	`
	var listing models.Listing
	err := r.db.QueryRow(query, id).Scan(
		&listing.ID, &listing.Kind, &listing.PosterID, &listing.Amount,
		&listing.InterestRate, &listing.TermMonths,
		&listing.Description, &listing.Purpose, &listing.RepaymentPlan,
		&listing.Status, &listing.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// ListOpenByKind returns open listings of one kind, newest first, with the
// poster's name and mean rating resolved for the marketplace view.
func (r *ListingRepository) ListOpenByKind(kind string) ([]models.ListingView, error) {
	query := `
		SELECT l.id, l.kind, l.poster_id, u.name, l.amount, l.interest_rate, l.term_months,
			l.description, l.purpose, l.repayment_plan, l.created_at,
			COALESCE(ROUND(AVG(r.score)::numeric, 1), 0)
		FROM listings l
		JOIN users u ON u.id = l.poster_id
		LEFT JOIN ratings r ON r.ratee_id = l.poster_id
		WHERE l.status = 'open' AND l.kind = $1
		GROUP BY l.id, u.name
		ORDER BY l.created_at DESC
	`
	rows, err := r.db.Query(query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var views []models.ListingView
	for rows.Next() {
		var v models.ListingView
		if err := rows.Scan(
			&v.ID, &v.Kind, &v.PosterID, &v.PosterName, &v.Amount,
			&v.InterestRate, &v.TermMonths,
			&v.Description, &v.Purpose, &v.RepaymentPlan,
			&v.CreatedAt, &v.PosterRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		views = append(views, v)
	}
	return views, nil
}

// Withdraw retires an open listing. The conditional UPDATE is the concurrency
// rule: if the listing was matched or withdrawn in the meantime, zero rows
// change and the caller gets ErrListingUnavailable.
func (r *ListingRepository) Withdraw(listingID string) error {
	result, err := r.db.Exec(`
		UPDATE listings SET status = 'withdrawn' WHERE id = $1 AND status = 'open'
	`, listingID)
	if err != nil {
		return fmt.Errorf("failed to withdraw listing: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ledger.ErrListingUnavailable
	}
	return nil
}
