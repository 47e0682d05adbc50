package models

import (
	"time"

	"github.com/susucircle/susu-backend/internal/money"
)

// Contribution frequencies accepted at group creation.
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiWeekly = "bi-weekly"
	FrequencyMonthly  = "monthly"
)

// Listing kinds and statuses.
const (
	ListingKindOffer   = "offer"
	ListingKindRequest = "request"

	ListingStatusOpen      = "open"
	ListingStatusMatched   = "matched"
	ListingStatusWithdrawn = "withdrawn"
)

// Loan statuses. "overdue" is derived on read and never stored.
const (
	LoanStatusPending   = "pending"
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
	LoanStatusDefaulted = "defaulted"
	LoanStatusOverdue   = "overdue"
)

// Transaction types and statuses.
const (
	TransactionLoanGiven    = "loan_given"
	TransactionLoanReceived = "loan_received"
	TransactionContribution = "contribution"
	TransactionPayment      = "payment"

	TransactionStatusCompleted = "completed"
	TransactionStatusPending   = "pending"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type SavingsGroup struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	CreatorID             string       `json:"-"`
	TargetAmount          money.Amount `json:"targetAmount"`
	CurrentAmount         money.Amount `json:"currentAmount"`
	ContributionAmount    money.Amount `json:"contributionAmount"`
	ContributionFrequency string       `json:"contributionFrequency"`
	CreatedAt             time.Time    `json:"createdTimestamp"`
	UpdatedAt             time.Time    `json:"updatedTimestamp"`
}

type Membership struct {
	GroupID  string    `json:"groupId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedTimestamp"`
}

type Contribution struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"groupId"`
	UserID    string       `json:"userId"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"createdTimestamp"`
}

// Listing is a loan offer or a loan request prior to matching. Offers carry
// InterestRate and TermMonths; requests carry Purpose and RepaymentPlan.
type Listing struct {
	ID            string       `json:"id"`
	Kind          string       `json:"kind"`
	PosterID      string       `json:"-"`
	Amount        money.Amount `json:"amount"`
	InterestRate  float64      `json:"interestRate,omitempty"`
	TermMonths    int          `json:"repaymentPeriodMonths,omitempty"`
	Description   string       `json:"description,omitempty"`
	Purpose       string       `json:"purpose,omitempty"`
	RepaymentPlan string       `json:"repaymentPlan,omitempty"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"createdTimestamp"`
}

type Loan struct {
	ID           string       `json:"id"`
	ListingID    string       `json:"listingId"`
	LenderID     string       `json:"lenderId"`
	BorrowerID   string       `json:"borrowerId"`
	Principal    money.Amount `json:"principal"`
	InterestRate float64      `json:"interestRate"`
	TermMonths   int          `json:"termMonths"`
	Status       string       `json:"status"`
	AcceptedAt   time.Time    `json:"acceptedTimestamp"`
	DisbursedAt  *time.Time   `json:"disbursedTimestamp,omitempty"`
}

// Installment is one entry of a loan's repayment schedule.
type Installment struct {
	LoanID   string       `json:"loanId"`
	Sequence int          `json:"sequence"`
	Amount   money.Amount `json:"amount"`
	DueDate  time.Time    `json:"dueDate"`
	Paid     bool         `json:"paid"`
	PaidAt   *time.Time   `json:"paidTimestamp,omitempty"`
}

// Transaction is a ledger line. Exactly one of LoanID / ContributionID is set,
// tying the line to the record it settles.
type Transaction struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Type           string       `json:"type"`
	Amount         money.Amount `json:"amount"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	LoanID         string       `json:"loanId,omitempty"`
	ContributionID string       `json:"contributionId,omitempty"`
	CreatedAt      time.Time    `json:"createdTimestamp"`
}

type Conversation struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	InitiatorID  string    `json:"initiatorId"`
	ResponderID  string    `json:"responderId"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdTimestamp"`
}

// Rating is a counterparty score submitted after a completed loan.
type Rating struct {
	LoanID    string    `json:"loanId"`
	RaterID   string    `json:"raterId"`
	RateeID   string    `json:"rateeId"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdTimestamp"`
}
