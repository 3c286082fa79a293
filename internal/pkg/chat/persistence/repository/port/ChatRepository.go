package repository

import (
	"context"
	"sync"

	chat "tabangi/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain against
// the backing document store. All mutations are partial-field updates, never
// whole-document overwrites, so concurrent writers touching disjoint fields
// never lose data.
type ChatRepository interface {
	// GetConversation returns chat.ErrNotFound when no document exists.
	GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error)

	// CreateConversation writes the initial document. LastUpdated is assigned
	// by the store.
	CreateConversation(ctx context.Context, c chat.Conversation) error

	// SetUnread updates a single participant's unread flag in place.
	SetUnread(ctx context.Context, conversationID, userID string, unread bool) error

	// SaveMessage appends m under its conversation with a store-assigned id
	// and timestamp, both returned on the result.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// UpdateSummary advances the conversation's denormalized last-message
	// fields and flags recipientID as having unseen messages.
	UpdateSummary(ctx context.Context, conversationID, lastMessage, recipientID string) error

	// MessagesByConversation returns the full message list ascending by
	// store-assigned timestamp.
	MessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error)

	// ConversationsByParticipant returns every conversation the user takes
	// part in, most recently updated first.
	ConversationsByParticipant(ctx context.Context, userID string) ([]chat.Conversation, error)

	// WatchMessages establishes a live view over a conversation's messages:
	// an initial snapshot followed by a fresh ordered snapshot on every
	// change. The caller must Cancel the subscription when done.
	WatchMessages(ctx context.Context, conversationID string) (*MessageSubscription, error)

	// WatchConversations mirrors WatchMessages for the set of conversations
	// the user participates in.
	WatchConversations(ctx context.Context, userID string) (*ConversationSubscription, error)
}

// MessageSubscription is a cancellable stream of full message snapshots.
// The channel is closed after Cancel, or when the watch's context ends.
type MessageSubscription struct {
	C <-chan []chat.Message

	once   sync.Once
	cancel func()
}

// NewMessageSubscription wires a snapshot channel to its cancel func.
func NewMessageSubscription(c <-chan []chat.Message, cancel func()) *MessageSubscription {
	return &MessageSubscription{C: c, cancel: cancel}
}

// Cancel stops further snapshots and releases the underlying watch. Safe to
// call multiple times.
func (s *MessageSubscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// ConversationSubscription is a cancellable stream of conversation-set
// snapshots for one participant.
type ConversationSubscription struct {
	C <-chan []chat.Conversation

	once   sync.Once
	cancel func()
}

// NewConversationSubscription wires a snapshot channel to its cancel func.
func NewConversationSubscription(c <-chan []chat.Conversation, cancel func()) *ConversationSubscription {
	return &ConversationSubscription{C: c, cancel: cancel}
}

// Cancel stops further snapshots and releases the underlying watch. Safe to
// call multiple times.
func (s *ConversationSubscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
