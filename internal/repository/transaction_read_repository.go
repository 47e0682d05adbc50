package repository

import (
	"database/sql"
	"fmt"

	"github.com/susucircle/susu-backend/internal/models"
)

// TransactionReadRepository serves transaction-history projections. Ledger
// lines are append-only, so reads go straight to PostgreSQL.
type TransactionReadRepository struct {
	db *sql.DB
}

func NewTransactionReadRepository(db *sql.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByUser returns the user's ledger lines, newest first.
func (r *TransactionReadRepository) ListByUser(userID string) ([]models.TransactionView, error) {
	return r.list(userID, 0)
}

// ListRecentByUser returns the user's latest ledger lines for the dashboard.
func (r *TransactionReadRepository) ListRecentByUser(userID string, limit int) ([]models.TransactionView, error) {
	return r.list(userID, limit)
}

func (r *TransactionReadRepository) list(userID string, limit int) ([]models.TransactionView, error) {
	query := `
		SELECT id, user_id, type, amount, description, status, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var v models.TransactionView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Type, &v.Amount, &v.Description, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, v)
	}
	return views, nil
}
