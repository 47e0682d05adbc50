package repository

import (
	"database/sql"
	"fmt"

	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// RatingRepository handles counterparty ratings.
type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(rating *models.Rating) error {
	query := `
		INSERT INTO ratings (loan_id, rater_id, ratee_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		rating.LoanID, rating.RaterID, rating.RateeID, rating.Score, rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrAlreadyRated
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// ListByRatee returns every rating a user has received.
func (r *RatingRepository) ListByRatee(userID string) ([]models.Rating, error) {
	rows, err := r.db.Query(`
		SELECT loan_id, rater_id, ratee_id, score, created_at
		FROM ratings
		WHERE ratee_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(&rating.LoanID, &rating.RaterID, &rating.RateeID, &rating.Score, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}
