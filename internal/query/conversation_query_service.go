package query

import (
	"time"

	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/repository"
)

// ConversationQueryService serves conversation and message reads.
type ConversationQueryService struct {
	conversationRepo *repository.ConversationRepository
}

func NewConversationQueryService(conversationRepo *repository.ConversationRepository) *ConversationQueryService {
	return &ConversationQueryService{conversationRepo: conversationRepo}
}

func (s *ConversationQueryService) ListConversations(q cqrs.ListConversationsQuery) ([]models.ConversationView, error) {
	return s.conversationRepo.ListByUser(q.UserID)
}

// ListMessages returns a thread in timestamp order and advances the caller's
// read cursor, which zeroes their unread count for this conversation.
func (s *ConversationQueryService) ListMessages(q cqrs.ListMessagesQuery) ([]models.Message, error) {
	conversation, err := s.conversationRepo.GetByID(q.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation.InitiatorID != q.UserID && conversation.ResponderID != q.UserID {
		return nil, ledger.ErrForbidden
	}
	messages, err := s.conversationRepo.ListMessages(q.ConversationID)
	if err != nil {
		return nil, err
	}
	if err := s.conversationRepo.TouchRead(q.ConversationID, q.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return messages, nil
}
