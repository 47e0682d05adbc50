package models

import (
	"time"

	"github.com/susucircle/susu-backend/internal/money"
)

// DashboardStats is the per-user summary shown on the dashboard.
// All figures are recomputed from the underlying records; the cached copy in
// Redis is invalidated whenever a contribution or loan event lands.
type DashboardStats struct {
	TotalSavings        money.Amount `json:"totalSavings"`
	ActiveGroups        int          `json:"activeGroups"`
	LoansGiven          int          `json:"loansGiven"`
	LoansReceived       int          `json:"loansReceived"`
	TotalAmountLent     money.Amount `json:"totalAmountLent"`
	TotalAmountBorrowed money.Amount `json:"totalAmountBorrowed"`
}

// DashboardView bundles the stats with the user's most recent ledger lines.
type DashboardView struct {
	UserID         string            `json:"userId"`
	Stats          DashboardStats    `json:"stats"`
	RecentActivity []TransactionView `json:"recentActivity"`
}

// UserProfileView is the read-optimised projection of a user with lifetime
// counters. Counters cover loans of every status; Rating is the one-decimal
// mean of received scores, 0 when unrated.
type UserProfileView struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	PhoneNumber         string       `json:"phoneNumber"`
	Rating              float64      `json:"rating"`
	TotalLoansGiven     int          `json:"totalLoansGiven"`
	TotalLoansReceived  int          `json:"totalLoansReceived"`
	TotalAmountLent     money.Amount `json:"totalAmountLent"`
	TotalAmountBorrowed money.Amount `json:"totalAmountBorrowed"`
	MemberSince         time.Time    `json:"memberSince"`
}

// GroupView is the catalog projection of a savings group.
type GroupView struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	TargetAmount          money.Amount `json:"targetAmount"`
	CurrentAmount         money.Amount `json:"currentAmount"`
	ContributionAmount    money.Amount `json:"contributionAmount"`
	ContributionFrequency string       `json:"contributionFrequency"`
	MemberCount           int          `json:"memberCount"`
	IsMember              bool         `json:"isMember"`
	ProgressPercent       float64      `json:"progressPercent"`
	CreatedAt             time.Time    `json:"createdTimestamp"`
}

// ListingView is the marketplace projection of an open listing.
type ListingView struct {
	ID            string       `json:"id"`
	Kind          string       `json:"kind"`
	PosterID      string       `json:"-"`
	PosterName    string       `json:"posterName"`
	PosterRating  float64      `json:"posterRating"`
	Amount        money.Amount `json:"amount"`
	InterestRate  float64      `json:"interestRate,omitempty"`
	TermMonths    int          `json:"repaymentPeriodMonths,omitempty"`
	Description   string       `json:"description,omitempty"`
	Purpose       string       `json:"purpose,omitempty"`
	RepaymentPlan string       `json:"repaymentPlan,omitempty"`
	CreatedAt     time.Time    `json:"createdTimestamp"`
}

// LoanView carries the loan with its derived effective status and schedule.
type LoanView struct {
	ID           string            `json:"id"`
	ListingID    string            `json:"listingId"`
	LenderID     string            `json:"lenderId"`
	BorrowerID   string            `json:"borrowerId"`
	Principal    money.Amount      `json:"principal"`
	InterestRate float64           `json:"interestRate"`
	TermMonths   int               `json:"termMonths"`
	Status       string            `json:"status"`
	AcceptedAt   time.Time         `json:"acceptedTimestamp"`
	DisbursedAt  *time.Time        `json:"disbursedTimestamp,omitempty"`
	Schedule     []InstallmentView `json:"schedule,omitempty"`
}

// InstallmentView is one schedule entry with its derived status.
type InstallmentView struct {
	Sequence int          `json:"sequence"`
	Amount   money.Amount `json:"amount"`
	DueDate  time.Time    `json:"dueDate"`
	Status   string       `json:"status"` // pending | paid | overdue
}

// TransactionView is the read projection of a ledger line.
type TransactionView struct {
	ID          string       `json:"id"`
	UserID      string       `json:"-"`
	Type        string       `json:"type"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"createdTimestamp"`
}

// ConversationView is a conversation with its latest message and unread count.
type ConversationView struct {
	ID              string       `json:"id"`
	ListingID       string       `json:"listingId"`
	ParticipantID   string       `json:"-"`
	ParticipantName string       `json:"participantName"`
	LoanAmount      money.Amount `json:"loanAmount"`
	LastMessage     string       `json:"lastMessage"`
	LastMessageTime time.Time    `json:"lastMessageTime"`
	UnreadCount     int          `json:"unreadCount"`
}

// ReconciliationView reports the reconciliation invariant for one group:
// the stored balance must equal the sum of its contributions.
type ReconciliationView struct {
	GroupID           string       `json:"groupId"`
	CurrentAmount     money.Amount `json:"currentAmount"`
	ContributionTotal money.Amount `json:"contributionTotal"`
	Discrepancy       money.Amount `json:"discrepancy"`
	Balanced          bool         `json:"balanced"`
}
