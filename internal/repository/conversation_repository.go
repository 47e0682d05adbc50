package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// ConversationRepository handles conversations and messages. Message order is
// the server-assigned created_at, so out-of-order client submission does not
// reorder a thread.
type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate returns the conversation between initiator and responder over a
// listing, creating it if absent. The unique constraint resolves a concurrent
// create: the loser re-reads the winner's row.
func (r *ConversationRepository) GetOrCreate(conversation *models.Conversation) (*models.Conversation, error) {
	existing, err := r.find(conversation.ListingID, conversation.InitiatorID, conversation.ResponderID)
	if err == nil {
		return existing, nil
	}
	if err != ledger.ErrConversationNotFound {
		return nil, err
	}

	_, err = r.db.Exec(`
		INSERT INTO conversations (id, listing_id, initiator_id, responder_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, conversation.ID, conversation.ListingID, conversation.InitiatorID, conversation.ResponderID, conversation.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return r.find(conversation.ListingID, conversation.InitiatorID, conversation.ResponderID)
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

func (r *ConversationRepository) find(listingID, initiatorID, responderID string) (*models.Conversation, error) {
	query := `
		SELECT id, listing_id, initiator_id, responder_id, created_at
		FROM conversations
		WHERE listing_id = $1
			AND ((initiator_id = $2 AND responder_id = $3) OR (initiator_id = $3 AND responder_id = $2))
	`
	var c models.Conversation
	err := r.db.QueryRow(query, listingID, initiatorID, responderID).Scan(
		&c.ID, &c.ListingID, &c.InitiatorID, &c.ResponderID, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &c, nil
}

func (r *ConversationRepository) GetByID(id string) (*models.Conversation, error) {
	query := `
		SELECT id, listing_id, initiator_id, responder_id, created_at
		FROM conversations
		WHERE id = $1
	`
	var c models.Conversation
	err := r.db.QueryRow(query, id).Scan(
		&c.ID, &c.ListingID, &c.InitiatorID, &c.ResponderID, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &c, nil
}

// ListByUser returns the user's conversations with counterparty name, listing
// amount, latest message and unread count, most recently active first.
func (r *ConversationRepository) ListByUser(userID string) ([]models.ConversationView, error) {
	query := `
		SELECT c.id, c.listing_id,
			other.id, other.name,
			l.amount,
			COALESCE(last.content, ''), COALESCE(last.created_at, c.created_at),
			(
				SELECT COUNT(*) FROM messages m
				WHERE m.conversation_id = c.id
					AND m.sender_id <> $1
					AND m.created_at > COALESCE(
						(SELECT last_read_at FROM conversation_reads
						 WHERE conversation_id = c.id AND user_id = $1),
						'epoch'::timestamptz)
			)
		FROM conversations c
		JOIN listings l ON l.id = c.listing_id
		JOIN users other ON other.id = CASE WHEN c.initiator_id = $1 THEN c.responder_id ELSE c.initiator_id END
		LEFT JOIN LATERAL (
			SELECT content, created_at FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) last ON TRUE
		WHERE c.initiator_id = $1 OR c.responder_id = $1
		ORDER BY COALESCE(last.created_at, c.created_at) DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var views []models.ConversationView
	for rows.Next() {
		var v models.ConversationView
		if err := rows.Scan(
			&v.ID, &v.ListingID, &v.ParticipantID, &v.ParticipantName,
			&v.LoanAmount, &v.LastMessage, &v.LastMessageTime, &v.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *ConversationRepository) InsertMessage(message *models.Message) error {
	_, err := r.db.Exec(`
		INSERT INTO messages (id, conversation_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, message.ID, message.ConversationID, message.SenderID, message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages in timestamp order.
func (r *ConversationRepository) ListMessages(conversationID string) ([]models.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// TouchRead advances the user's read cursor for a conversation.
func (r *ConversationRepository) TouchRead(conversationID, userID string, readAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO conversation_reads (conversation_id, user_id, last_read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (conversation_id, user_id) DO UPDATE SET last_read_at = EXCLUDED.last_read_at
	`, conversationID, userID, readAt)
	if err != nil {
		return fmt.Errorf("failed to update read cursor: %w", err)
	}
	return nil
}
