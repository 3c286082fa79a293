package chat

import (
	"errors"
	"strings"
	"time"
)

// ConversationIDDelimiter joins the sorted participant pair. Identifiers are
// opaque auth uids and never contain it.
const ConversationIDDelimiter = "_"

// Domain-level errors for chat behaviors
var (
	ErrInvalidParticipants = errors.New("chat: conversation requires two distinct non-empty participants")
	ErrEmptyMessage        = errors.New("chat: message body is empty")
	ErrNotParticipant      = errors.New("chat: sender is not a participant in the conversation")
	ErrNotFound            = errors.New("chat: not found")
)

// ConversationID derives the canonical identifier for the unordered pair (a, b):
// the lexicographically sorted pair joined with ConversationIDDelimiter, so
// ConversationID(a, b) == ConversationID(b, a). A user cannot open a
// conversation with themself.
func ConversationID(a, b string) (string, error) {
	if a == "" || b == "" || a == b {
		return "", ErrInvalidParticipants
	}
	if a > b {
		a, b = b, a
	}
	return a + ConversationIDDelimiter + b, nil
}

// Conversation is the shared document for one unordered pair of participants.
// LastMessage and LastUpdated are denormalized copies of the most recent
// message, advanced on every send. Unread is keyed by participant id.
type Conversation struct {
	ID           string
	Participants []string
	LastMessage  string
	LastUpdated  time.Time
	Unread       map[string]bool
}

// NewConversation shapes the initial document created on first thread visit:
// the creator has nothing unseen, the counterpart does.
func NewConversation(selfID, otherID string) (Conversation, error) {
	id, err := ConversationID(selfID, otherID)
	if err != nil {
		return Conversation{}, err
	}
	first, second := selfID, otherID
	if first > second {
		first, second = second, first
	}
	return Conversation{
		ID:           id,
		Participants: []string{first, second},
		LastMessage:  "",
		Unread:       map[string]bool{selfID: false, otherID: true},
	}, nil
}

// HasParticipant tells whether userID is part of this conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the other participant's id, or false when selfID is not
// a participant.
func (c Conversation) Counterpart(selfID string) (string, bool) {
	if !c.HasParticipant(selfID) {
		return "", false
	}
	for _, p := range c.Participants {
		if p != selfID {
			return p, true
		}
	}
	return "", false
}

// IsUnread reports whether viewerID has unseen messages in this conversation.
// A missing flag counts as read.
func (c Conversation) IsUnread(viewerID string) bool {
	return c.Unread[viewerID]
}

// Message is an immutable log entry in a conversation. Timestamp is assigned
// by the store on write.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	Timestamp      time.Time
}

// NewMessage validates a message before any store call. Empty and
// whitespace-only bodies are rejected; the body itself is stored as typed.
func NewMessage(conversationID, senderID, text string) (Message, error) {
	if conversationID == "" || senderID == "" {
		return Message{}, ErrInvalidParticipants
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}
	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}, nil
}
