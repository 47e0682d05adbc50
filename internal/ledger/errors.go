package ledger

import "errors"

// Domain errors. Handlers map these onto HTTP status codes; repositories and
// services return them unwrapped so callers can use errors.Is.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrListingNotFound      = errors.New("listing not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrInvalidGroupConfig rejects group creation with a non-positive target.
	// A zero target must never reach the progress projection.
	ErrInvalidGroupConfig = errors.New("invalid group configuration")

	// ErrListingUnavailable is the losing side of a concurrent accept, or any
	// action against a listing that is no longer open. Recoverable.
	ErrListingUnavailable = errors.New("listing no longer available")

	ErrForbidden      = errors.New("forbidden")
	ErrNotGroupMember = errors.New("not a group member")
	ErrAlreadyMember  = errors.New("already a group member")

	// ErrInvalidTransition guards the loan state machine: disburse requires
	// pending, payment requires active, rating requires completed.
	ErrInvalidTransition = errors.New("invalid loan state transition")

	// ErrAtomicWrite reports a two-sided ledger write that could not be applied
	// as a unit. The whole operation must be retried, never resumed.
	ErrAtomicWrite = errors.New("ledger write could not be applied atomically")

	ErrAlreadyRated = errors.New("loan already rated by this user")
)
