package query

import (
	"context"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
)

const recentActivityLimit = 10

// LedgerQueryService serves the derived figures: dashboard stats, profile
// counters and transaction history. The aggregation itself is pure (package
// ledger); this service fetches the snapshot, delegates, and caches the
// dashboard view until an invalidating event drops it.
type LedgerQueryService struct {
	userRepo        *repository.UserRepository
	groupRepo       *repository.GroupRepository
	loanRepo        *repository.LoanRepository
	ratingRepo      *repository.RatingRepository
	transactionRepo *repository.TransactionReadRepository
	dashboardRepo   *repository.DashboardReadRepository
}

func NewLedgerQueryService(
	userRepo *repository.UserRepository,
	groupRepo *repository.GroupRepository,
	loanRepo *repository.LoanRepository,
	ratingRepo *repository.RatingRepository,
	transactionRepo *repository.TransactionReadRepository,
	dashboardRepo *repository.DashboardReadRepository,
) *LedgerQueryService {
	return &LedgerQueryService{
		userRepo:        userRepo,
		groupRepo:       groupRepo,
		loanRepo:        loanRepo,
		ratingRepo:      ratingRepo,
		transactionRepo: transactionRepo,
		dashboardRepo:   dashboardRepo,
	}
}

// GetDashboard returns the per-user summary. An unknown user is NotFound; a
// known user with no records gets all-zero stats. Cache hits are served as-is
// because every record change that affects the stats also invalidates the key.
func (s *LedgerQueryService) GetDashboard(q cqrs.GetDashboardQuery) (*models.DashboardView, error) {
	ctx := context.Background()
	if view, ok := s.dashboardRepo.Get(ctx, q.UserID); ok {
		return view, nil
	}

	if _, err := s.userRepo.GetByID(q.UserID); err != nil {
		return nil, err
	}
	memberships, err := s.groupRepo.ListMemberships(q.UserID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.groupRepo.ListUserContributions(q.UserID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByUser(q.UserID)
	if err != nil {
		return nil, err
	}
	recent, err := s.transactionRepo.ListRecentByUser(q.UserID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	view := &models.DashboardView{
		UserID:         q.UserID,
		Stats:          ledger.ComputeDashboardStats(q.UserID, memberships, contributions, loans),
		RecentActivity: recent,
	}
	s.dashboardRepo.Set(ctx, view)
	return view, nil
}

// GetProfile returns a user's profile with lifetime counters and mean rating.
func (s *LedgerQueryService) GetProfile(q cqrs.GetProfileQuery) (*models.UserProfileView, error) {
	user, err := s.userRepo.GetByID(q.UserID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByUser(q.UserID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.ListByRatee(q.UserID)
	if err != nil {
		return nil, err
	}

	given, received, lent, borrowed := ledger.ProfileCounters(q.UserID, loans)
	return &models.UserProfileView{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		PhoneNumber:         user.PhoneNumber,
		Rating:              ledger.MeanRating(ratings),
		TotalLoansGiven:     given,
		TotalLoansReceived:  received,
		TotalAmountLent:     lent,
		TotalAmountBorrowed: borrowed,
		MemberSince:         user.CreatedAt,
	}, nil
}

// ListTransactions returns the caller's ledger lines, newest first.
func (s *LedgerQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if _, err := s.userRepo.GetByID(q.UserID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByUser(q.UserID)
}
