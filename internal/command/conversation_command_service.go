package command

import (
	"context"
	"log"
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/events"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
	"github.com/susucircle/susu-backend/internal/utils"
)

// ConversationCommandService opens conversations against listings and appends
// messages. Timestamps are server-assigned so a thread's order never depends
// on client submission order.
type ConversationCommandService struct {
	conversationRepo *repository.ConversationRepository
	listingRepo      *repository.ListingRepository
	publisher        *events.Publisher
}

func NewConversationCommandService(
	conversationRepo *repository.ConversationRepository,
	listingRepo *repository.ListingRepository,
	publisher *events.Publisher,
) *ConversationCommandService {
	return &ConversationCommandService{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		publisher:        publisher,
	}
}

// StartConversation opens (or returns) the thread between the initiator and a
// listing's poster, optionally appending a first message.
func (s *ConversationCommandService) StartConversation(cmd cqrs.StartConversationCommand) (*models.Conversation, error) {
	listing, err := s.listingRepo.GetByID(cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.PosterID == cmd.InitiatorID {
		return nil, ledger.ErrForbidden
	}

	conversation := &models.Conversation{
		ID:          utils.GenerateID("cnv"),
		ListingID:   listing.ID,
		InitiatorID: cmd.InitiatorID,
		ResponderID: listing.PosterID,
		CreatedAt:   time.Now().UTC(),
	}
	conversation, err = s.conversationRepo.GetOrCreate(conversation)
	if err != nil {
		return nil, err
	}

	if cmd.Content != "" {
		if _, err := s.SendMessage(cqrs.SendMessageCommand{
			ConversationID: conversation.ID,
			SenderID:       cmd.InitiatorID,
			Content:        cmd.Content,
		}); err != nil {
			return nil, err
		}
	}
	return conversation, nil
}

func (s *ConversationCommandService) SendMessage(cmd cqrs.SendMessageCommand) (*models.Message, error) {
	conversation, err := s.conversationRepo.GetByID(cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation.InitiatorID != cmd.SenderID && conversation.ResponderID != cmd.SenderID {
		return nil, ledger.ErrForbidden
	}

	message := &models.Message{
		ID:             utils.GenerateID("msg"),
		ConversationID: conversation.ID,
		SenderID:       cmd.SenderID,
		Content:        cmd.Content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.conversationRepo.InsertMessage(message); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.MessageEventsStream, events.MessageSent, events.MessageSentEvent{
		MessageID:      message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
	}); err != nil {
		log.Printf("Failed to publish message.sent event: %v", err)
	}
	return message, nil
}
