package cqrs

import "github.com/susucircle/susu-backend/internal/money"

type RegisterUserCommand struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

type CreateGroupCommand struct {
	CreatorID             string
	Name                  string
	Description           string
	TargetAmount          money.Amount
	ContributionAmount    money.Amount
	ContributionFrequency string
}

type JoinGroupCommand struct {
	GroupID string
	UserID  string
}

type RecordContributionCommand struct {
	GroupID string
	UserID  string
	Amount  money.Amount
}

type CreateListingCommand struct {
	Kind          string
	PosterID      string
	Amount        money.Amount
	InterestRate  float64
	TermMonths    int
	Description   string
	Purpose       string
	RepaymentPlan string
}

// AcceptListingCommand matches a listing. For an offer the accepter becomes
// the borrower; for a request the accepter becomes the lender. Requests carry
// the terms the accepting lender sets.
type AcceptListingCommand struct {
	ListingID    string
	AccepterID   string
	InterestRate float64
	TermMonths   int
}

type WithdrawListingCommand struct {
	ListingID string
	PosterID  string
}

type DisburseLoanCommand struct {
	LoanID   string
	LenderID string
}

type RecordPaymentCommand struct {
	LoanID     string
	BorrowerID string
}

type RateLoanCommand struct {
	LoanID  string
	RaterID string
	Score   int
}

type StartConversationCommand struct {
	ListingID   string
	InitiatorID string
	Content     string
}

type SendMessageCommand struct {
	ConversationID string
	SenderID       string
	Content        string
}
