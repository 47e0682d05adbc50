package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/events"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
	"github.com/susucircle/susu-backend/internal/utils"
)

// ListingCommandService creates and withdraws marketplace listings.
type ListingCommandService struct {
	listingRepo *repository.ListingRepository
	publisher   *events.Publisher
}

func NewListingCommandService(listingRepo *repository.ListingRepository, publisher *events.Publisher) *ListingCommandService {
	return &ListingCommandService{listingRepo: listingRepo, publisher: publisher}
}

func (s *ListingCommandService) CreateListing(cmd cqrs.CreateListingCommand) (*models.Listing, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if cmd.Kind == models.ListingKindOffer {
		if cmd.InterestRate < 0 || cmd.TermMonths <= 0 {
			return nil, fmt.Errorf("offer requires a non-negative rate and a positive term")
		}
	}

	listing := &models.Listing{
		ID:            utils.GenerateID("lst"),
		Kind:          cmd.Kind,
		PosterID:      cmd.PosterID,
		Amount:        cmd.Amount,
		InterestRate:  cmd.InterestRate,
		TermMonths:    cmd.TermMonths,
		Description:   cmd.Description,
		Purpose:       cmd.Purpose,
		RepaymentPlan: cmd.RepaymentPlan,
		Status:        models.ListingStatusOpen,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.listingRepo.Create(listing); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(context.Background(), events.ListingEventsStream, events.ListingCreated, events.ListingCreatedEvent{
		ListingID: listing.ID,
		Kind:      listing.Kind,
		PosterID:  listing.PosterID,
		Amount:    listing.Amount,
	}); err != nil {
		log.Printf("Failed to publish listing.created event: %v", err)
	}
	return listing, nil
}

// WithdrawListing retires a listing. Only the poster may withdraw, and only
// while the listing is still open — once matched, withdrawal would need mutual
// agreement, which this surface does not offer.
func (s *ListingCommandService) WithdrawListing(cmd cqrs.WithdrawListingCommand) error {
	listing, err := s.listingRepo.GetByID(cmd.ListingID)
	if err != nil {
		return err
	}
	if listing.PosterID != cmd.PosterID {
		return ledger.ErrForbidden
	}
	if err := s.listingRepo.Withdraw(cmd.ListingID); err != nil {
		return err
	}
	if err := s.publisher.Publish(context.Background(), events.ListingEventsStream, events.ListingWithdrawn, events.ListingWithdrawnEvent{
		ListingID: listing.ID,
		PosterID:  listing.PosterID,
	}); err != nil {
		log.Printf("Failed to publish listing.withdrawn event: %v", err)
	}
	return nil
}
