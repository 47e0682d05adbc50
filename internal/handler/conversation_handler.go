package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/middleware"
	"github.com/susucircle/susu-backend/internal/models"
)

// ConversationCommander defines the write-side operations used by ConversationHandler.
type ConversationCommander interface {
	StartConversation(cqrs.StartConversationCommand) (*models.Conversation, error)
	SendMessage(cqrs.SendMessageCommand) (*models.Message, error)
}

// ConversationQuerier defines the read-side operations used by ConversationHandler.
type ConversationQuerier interface {
	ListConversations(cqrs.ListConversationsQuery) ([]models.ConversationView, error)
	ListMessages(cqrs.ListMessagesQuery) ([]models.Message, error)
}

type ConversationHandler struct {
	commands ConversationCommander
	queries  ConversationQuerier
}

type StartConversationRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	Content   string `json:"content" validate:"max=2000"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type ListConversationsResponse struct {
	Conversations []models.ConversationView `json:"conversations"`
}

type ListMessagesResponse struct {
	Messages []models.Message `json:"messages"`
}

func NewConversationHandler(commands ConversationCommander, queries ConversationQuerier) *ConversationHandler {
	return &ConversationHandler{commands: commands, queries: queries}
}

// StartConversation opens (or returns) the thread between the caller and a
// listing's poster.
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	conversation, err := h.commands.StartConversation(cqrs.StartConversationCommand{
		ListingID:   req.ListingID,
		InitiatorID: userID,
		Content:     req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrListingNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Listing not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You cannot message yourself")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to start conversation")
		}
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListConversations(cqrs.ListConversationsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list conversations")
		return
	}
	if views == nil {
		views = []models.ConversationView{}
	}
	c.JSON(http.StatusOK, ListConversationsResponse{Conversations: views})
}

// SendMessage appends to a thread the caller participates in. The timestamp is
// assigned server-side.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID, _ := middleware.GetUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	message, err := h.commands.SendMessage(cqrs.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrConversationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this conversation")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages returns a thread in timestamp order and marks it read for the
// caller.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID, _ := middleware.GetUserID(c)

	messages, err := h.queries.ListMessages(cqrs.ListMessagesQuery{
		ConversationID: conversationID,
		UserID:         userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrConversationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this conversation")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list messages")
		}
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, ListMessagesResponse{Messages: messages})
}
