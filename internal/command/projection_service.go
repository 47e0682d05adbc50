package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/susucircle/susu-backend/internal/events"
	"github.com/susucircle/susu-backend/internal/redis"
	"github.com/susucircle/susu-backend/internal/repository"
)

// ProjectionService keeps the cached dashboard read models honest. It consumes
// contribution and loan events and drops every affected user's cached
// dashboard, which forces a recompute on the next read — the invalidation rule
// that makes caching totalSavings legal at all. Duplicate stream deliveries
// are detected via an event-ID marker and skipped.
type ProjectionService struct {
	dashboardRepo *repository.DashboardReadRepository
	marker        *redis.Marker
}

func NewProjectionService(dashboardRepo *repository.DashboardReadRepository, marker *redis.Marker) *ProjectionService {
	return &ProjectionService{dashboardRepo: dashboardRepo, marker: marker}
}

// HandleContributionEvent invalidates the contributor's dashboard.
func (s *ProjectionService) HandleContributionEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.ContributionRecorded {
		return nil
	}
	if !s.marker.MarkOnce(ctx, "event:processed:"+event.ID) {
		log.Printf("Event %s already processed, skipping duplicate", event.ID)
		return nil
	}
	var data events.ContributionRecordedEvent
	if err := decodeEventData(event, &data); err != nil {
		return err
	}
	s.dashboardRepo.Invalidate(ctx, data.UserID)
	return nil
}

// HandleLoanEvent invalidates both parties' dashboards on any loan lifecycle
// change.
func (s *ProjectionService) HandleLoanEvent(ctx context.Context, event events.Event) error {
	if !s.marker.MarkOnce(ctx, "event:processed:"+event.ID) {
		log.Printf("Event %s already processed, skipping duplicate", event.ID)
		return nil
	}
	switch event.Type {
	case events.LoanAccepted:
		var data events.LoanAcceptedEvent
		if err := decodeEventData(event, &data); err != nil {
			return err
		}
		s.dashboardRepo.Invalidate(ctx, data.LenderID)
		s.dashboardRepo.Invalidate(ctx, data.BorrowerID)
	case events.LoanDisbursed:
		var data events.LoanDisbursedEvent
		if err := decodeEventData(event, &data); err != nil {
			return err
		}
		s.dashboardRepo.Invalidate(ctx, data.LenderID)
		s.dashboardRepo.Invalidate(ctx, data.BorrowerID)
	case events.LoanPaymentRecorded:
		var data events.LoanPaymentRecordedEvent
		if err := decodeEventData(event, &data); err != nil {
			return err
		}
		s.dashboardRepo.Invalidate(ctx, data.LenderID)
		s.dashboardRepo.Invalidate(ctx, data.BorrowerID)
	}
	return nil
}

func decodeEventData(event events.Event, out any) error {
	dataBytes, _ := json.Marshal(event.Data)
	if err := json.Unmarshal(dataBytes, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", event.Type, err)
	}
	return nil
}
