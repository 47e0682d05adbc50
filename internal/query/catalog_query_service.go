package query

import (
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
)

// CatalogQueryService serves the read-only projections: the group catalog with
// progress, and the open marketplace listings.
type CatalogQueryService struct {
	groupRepo   *repository.GroupRepository
	listingRepo *repository.ListingRepository
}

func NewCatalogQueryService(groupRepo *repository.GroupRepository, listingRepo *repository.ListingRepository) *CatalogQueryService {
	return &CatalogQueryService{groupRepo: groupRepo, listingRepo: listingRepo}
}

// ListGroups returns all groups with member counts, the caller's membership
// flag and funding progress, newest first.
func (s *CatalogQueryService) ListGroups(q cqrs.ListGroupsQuery) ([]models.GroupView, error) {
	groups, counts, err := s.groupRepo.List()
	if err != nil {
		return nil, err
	}
	memberships, err := s.groupRepo.ListMemberships(q.RequestingUserID)
	if err != nil {
		return nil, err
	}
	memberOf := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		memberOf[m.GroupID] = true
	}

	views := make([]models.GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, groupToView(&groups[i], counts[groups[i].ID], memberOf[groups[i].ID]))
	}
	return views, nil
}

func (s *CatalogQueryService) GetGroup(q cqrs.GetGroupQuery) (*models.GroupView, error) {
	group, err := s.groupRepo.GetByID(q.GroupID)
	if err != nil {
		return nil, err
	}
	count, err := s.groupRepo.MemberCount(q.GroupID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.groupRepo.IsMember(q.GroupID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}
	view := groupToView(group, count, isMember)
	return &view, nil
}

// ReconcileGroup verifies the reconciliation invariant for one group.
func (s *CatalogQueryService) ReconcileGroup(q cqrs.ReconcileGroupQuery) (*models.ReconciliationView, error) {
	group, err := s.groupRepo.GetByID(q.GroupID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.groupRepo.ListContributions(q.GroupID)
	if err != nil {
		return nil, err
	}
	view := ledger.Reconcile(group, contributions)
	return &view, nil
}

// ListListings returns open listings of the requested kind, newest first.
func (s *CatalogQueryService) ListListings(q cqrs.ListListingsQuery) ([]models.ListingView, error) {
	return s.listingRepo.ListOpenByKind(q.Kind)
}

func groupToView(group *models.SavingsGroup, memberCount int, isMember bool) models.GroupView {
	return models.GroupView{
		ID:                    group.ID,
		Name:                  group.Name,
		Description:           group.Description,
		TargetAmount:          group.TargetAmount,
		CurrentAmount:         group.CurrentAmount,
		ContributionAmount:    group.ContributionAmount,
		ContributionFrequency: group.ContributionFrequency,
		MemberCount:           memberCount,
		IsMember:              isMember,
		ProgressPercent:       ledger.ProgressPercent(group),
		CreatedAt:             group.CreatedAt,
	}
}
