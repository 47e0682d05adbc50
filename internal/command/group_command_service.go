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

// GroupCommandService creates savings groups, enrols members and records
// contributions.
type GroupCommandService struct {
	groupRepo *repository.GroupRepository
	publisher *events.Publisher
}

func NewGroupCommandService(groupRepo *repository.GroupRepository, publisher *events.Publisher) *GroupCommandService {
	return &GroupCommandService{groupRepo: groupRepo, publisher: publisher}
}

// CreateGroup validates the configuration and creates the group with the
// creator as first member. A non-positive target can never reach the progress
// projection, so it is rejected here.
func (s *GroupCommandService) CreateGroup(cmd cqrs.CreateGroupCommand) (*models.SavingsGroup, error) {
	if cmd.TargetAmount <= 0 || cmd.ContributionAmount <= 0 {
		return nil, ledger.ErrInvalidGroupConfig
	}
	switch cmd.ContributionFrequency {
	case models.FrequencyWeekly, models.FrequencyBiWeekly, models.FrequencyMonthly:
	default:
		return nil, ledger.ErrInvalidGroupConfig
	}

	group := &models.SavingsGroup{
		ID:                    utils.GenerateID("grp"),
		Name:                  cmd.Name,
		Description:           cmd.Description,
		CreatorID:             cmd.CreatorID,
		TargetAmount:          cmd.TargetAmount,
		CurrentAmount:         0,
		ContributionAmount:    cmd.ContributionAmount,
		ContributionFrequency: cmd.ContributionFrequency,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(context.Background(), events.GroupEventsStream, events.GroupCreated, events.GroupCreatedEvent{
		GroupID:      group.ID,
		CreatorID:    group.CreatorID,
		Name:         group.Name,
		TargetAmount: group.TargetAmount,
	}); err != nil {
		log.Printf("Failed to publish group.created event: %v", err)
	}
	return group, nil
}

func (s *GroupCommandService) JoinGroup(cmd cqrs.JoinGroupCommand) error {
	if _, err := s.groupRepo.GetByID(cmd.GroupID); err != nil {
		return err
	}
	if err := s.groupRepo.AddMember(cmd.GroupID, cmd.UserID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.publisher.Publish(context.Background(), events.GroupEventsStream, events.MemberJoined, events.MemberJoinedEvent{
		GroupID: cmd.GroupID,
		UserID:  cmd.UserID,
	}); err != nil {
		log.Printf("Failed to publish group.member_joined event: %v", err)
	}
	return nil
}

// RecordContribution writes the contribution, the balance bump and the ledger
// line atomically, then publishes the event that invalidates the contributor's
// cached dashboard.
func (s *GroupCommandService) RecordContribution(cmd cqrs.RecordContributionCommand) (*models.Contribution, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	group, err := s.groupRepo.GetByID(cmd.GroupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groupRepo.IsMember(cmd.GroupID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ledger.ErrNotGroupMember
	}

	now := time.Now().UTC()
	contribution := &models.Contribution{
		ID:        utils.GenerateID("ctb"),
		GroupID:   cmd.GroupID,
		UserID:    cmd.UserID,
		Amount:    cmd.Amount,
		CreatedAt: now,
	}
	txn := &models.Transaction{
		ID:          utils.GenerateID("tan"),
		UserID:      cmd.UserID,
		Type:        models.TransactionContribution,
		Amount:      cmd.Amount,
		Description: fmt.Sprintf("Contribution to %s", group.Name),
		Status:      models.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	newBalance, err := s.groupRepo.RecordContribution(contribution, txn)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.ContributionEventsStream, events.ContributionRecorded, events.ContributionRecordedEvent{
		ContributionID: contribution.ID,
		GroupID:        contribution.GroupID,
		UserID:         contribution.UserID,
		Amount:         contribution.Amount,
		NewBalance:     newBalance,
	}); err != nil {
		log.Printf("Failed to publish contribution.recorded event: %v", err)
	}
	return contribution, nil
}
