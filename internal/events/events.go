package events

import (
	"time"

	"github.com/susucircle/susu-backend/internal/money"
)

// Event types
const (
	UserCreated = "user.created"

	GroupCreated = "group.created"
	MemberJoined = "group.member_joined"

	ContributionRecorded = "contribution.recorded"

	ListingCreated   = "listing.created"
	ListingWithdrawn = "listing.withdrawn"

	LoanAccepted        = "loan.accepted"
	LoanDisbursed       = "loan.disbursed"
	LoanPaymentRecorded = "loan.payment_recorded"
	LoanCompleted       = "loan.completed"

	MessageSent = "message.sent"
)

// Stream names
const (
	UserEventsStream         = "user.events"
	GroupEventsStream        = "group.events"
	ContributionEventsStream = "contribution.events"
	ListingEventsStream      = "listing.events"
	LoanEventsStream         = "loan.events"
	MessageEventsStream      = "message.events"
)

// Base event structure. ID is a UUID assigned by the publisher and used by
// consumers as their idempotency key.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type GroupCreatedEvent struct {
	GroupID      string       `json:"groupId"`
	CreatorID    string       `json:"creatorId"`
	Name         string       `json:"name"`
	TargetAmount money.Amount `json:"targetAmount"`
}

type MemberJoinedEvent struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

// ContributionRecordedEvent drives dashboard cache invalidation: totalSavings
// may never be served stale past a new contribution.
type ContributionRecordedEvent struct {
	ContributionID string       `json:"contributionId"`
	GroupID        string       `json:"groupId"`
	UserID         string       `json:"userId"`
	Amount         money.Amount `json:"amount"`
	NewBalance     money.Amount `json:"newBalance"`
}

type ListingCreatedEvent struct {
	ListingID string       `json:"listingId"`
	Kind      string       `json:"kind"`
	PosterID  string       `json:"posterId"`
	Amount    money.Amount `json:"amount"`
}

type ListingWithdrawnEvent struct {
	ListingID string `json:"listingId"`
	PosterID  string `json:"posterId"`
}

type LoanAcceptedEvent struct {
	LoanID     string       `json:"loanId"`
	ListingID  string       `json:"listingId"`
	LenderID   string       `json:"lenderId"`
	BorrowerID string       `json:"borrowerId"`
	Principal  money.Amount `json:"principal"`
}

type LoanDisbursedEvent struct {
	LoanID     string       `json:"loanId"`
	LenderID   string       `json:"lenderId"`
	BorrowerID string       `json:"borrowerId"`
	Principal  money.Amount `json:"principal"`
}

type LoanPaymentRecordedEvent struct {
	LoanID     string       `json:"loanId"`
	LenderID   string       `json:"lenderId"`
	BorrowerID string       `json:"borrowerId"`
	Amount     money.Amount `json:"amount"`
	Completed  bool         `json:"completed"`
}

type MessageSentEvent struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}
