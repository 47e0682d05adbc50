package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/money"
)

// GroupRepository handles savings groups, memberships and contributions
// against the PostgreSQL write store.
type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group and enrols the creator as its first member in one
// database transaction.
func (r *GroupRepository) Create(group *models.SavingsGroup) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO savings_groups (id, name, description, creator_id, target_amount, current_amount,
			contribution_amount, contribution_frequency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		group.ID, group.Name, group.Description, group.CreatorID,
		group.TargetAmount, group.CurrentAmount,
		group.ContributionAmount, group.ContributionFrequency,
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3)
	`, group.ID, group.CreatorID, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enrol creator: %w", err)
	}

	return tx.Commit()
}

func (r *GroupRepository) GetByID(id string) (*models.SavingsGroup, error) {
	query := `
		SELECT id, name, description, creator_id, target_amount, current_amount,
			contribution_amount, contribution_frequency, created_at, updated_at
		FROM savings_groups
		WHERE id = $1
	`
	var group models.SavingsGroup
	err := r.db.QueryRow(query, id).Scan(
		&group.ID, &group.Name, &group.Description, &group.CreatorID,
		&group.TargetAmount, &group.CurrentAmount,
		&group.ContributionAmount, &group.ContributionFrequency,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// List returns all groups with member counts, newest first.
func (r *GroupRepository) List() ([]models.SavingsGroup, map[string]int, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.target_amount, g.current_amount,
			g.contribution_amount, g.contribution_frequency, g.created_at, g.updated_at,
			COUNT(m.user_id)
		FROM savings_groups g
		LEFT JOIN group_members m ON m.group_id = g.id
		GROUP BY g.id
		ORDER BY g.created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.SavingsGroup
	counts := make(map[string]int)
	for rows.Next() {
		var group models.SavingsGroup
		var count int
		if err := rows.Scan(
			&group.ID, &group.Name, &group.Description, &group.CreatorID,
			&group.TargetAmount, &group.CurrentAmount,
			&group.ContributionAmount, &group.ContributionFrequency,
			&group.CreatedAt, &group.UpdatedAt, &count,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
		counts[group.ID] = count
	}
	return groups, counts, nil
}

func (r *GroupRepository) MemberCount(groupID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

func (r *GroupRepository) AddMember(groupID, userID string, joinedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3)
	`, groupID, userID, joinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *GroupRepository) IsMember(groupID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// ListMemberships returns every membership row for a user.
func (r *GroupRepository) ListMemberships(userID string) ([]models.Membership, error) {
	rows, err := r.db.Query(`
		SELECT group_id, user_id, joined_at FROM group_members WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

// RecordContribution inserts the contribution, bumps the group balance and
// writes the ledger line in ONE database transaction. This keeps the
// reconciliation invariant (sum of contributions == current_amount)
// transactional rather than eventual.
func (r *GroupRepository) RecordContribution(contribution *models.Contribution, txn *models.Transaction) (money.Amount, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO contributions (id, group_id, user_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, contribution.ID, contribution.GroupID, contribution.UserID, contribution.Amount, contribution.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contribution: %w", err)
	}

	var newBalance money.Amount
	err = tx.QueryRow(`
		UPDATE savings_groups
		SET current_amount = current_amount + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING current_amount
	`, contribution.GroupID, contribution.Amount).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, ledger.ErrGroupNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update group balance: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (id, user_id, type, amount, description, status, contribution_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Description, txn.Status, contribution.ID, txn.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contribution transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit contribution: %w", err)
	}
	return newBalance, nil
}

// ListContributions returns a group's contributions, oldest first.
func (r *GroupRepository) ListContributions(groupID string) ([]models.Contribution, error) {
	rows, err := r.db.Query(`
		SELECT id, group_id, user_id, amount, created_at
		FROM contributions
		WHERE group_id = $1
		ORDER BY created_at
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()
	return scanContributions(rows)
}

// ListUserContributions returns a user's contributions across all groups.
func (r *GroupRepository) ListUserContributions(userID string) ([]models.Contribution, error) {
	rows, err := r.db.Query(`
		SELECT id, group_id, user_id, amount, created_at
		FROM contributions
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()
	return scanContributions(rows)
}

func scanContributions(rows *sql.Rows) ([]models.Contribution, error) {
	var contributions []models.Contribution
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.GroupID, &c.UserID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, nil
}
