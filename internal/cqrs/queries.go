package cqrs

// ---------- Ledger queries ----------

// GetDashboardQuery fetches the derived per-user summary plus recent activity.
type GetDashboardQuery struct {
	UserID string
}

// GetProfileQuery fetches a user profile with lifetime counters and rating.
type GetProfileQuery struct {
	UserID string
}

// ListTransactionsQuery fetches the caller's ledger lines, newest first.
type ListTransactionsQuery struct {
	UserID string
}

// ---------- Catalog queries ----------

// ListGroupsQuery fetches the group catalog; IsMember is resolved per caller.
type ListGroupsQuery struct {
	RequestingUserID string
}

// GetGroupQuery fetches a single group projection.
type GetGroupQuery struct {
	GroupID          string
	RequestingUserID string
}

// ReconcileGroupQuery runs the reconciliation invariant check for a group.
type ReconcileGroupQuery struct {
	GroupID string
}

// ListListingsQuery fetches open listings of one kind, newest first.
type ListListingsQuery struct {
	Kind string
}

// ---------- Loan queries ----------

// ListLoansQuery fetches all loans the caller participates in.
type ListLoansQuery struct {
	UserID string
}

// GetLoanQuery fetches one loan with schedule; party-only.
type GetLoanQuery struct {
	LoanID           string
	RequestingUserID string
}

// ---------- Conversation queries ----------

// ListConversationsQuery fetches the caller's conversations.
type ListConversationsQuery struct {
	UserID string
}

// ListMessagesQuery fetches a conversation's messages in timestamp order and
// advances the caller's read cursor.
type ListMessagesQuery struct {
	ConversationID string
	UserID         string
}
