package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// RecipientNotifier nudges a user's live session about fresh activity. The
// realtime router implements it; delivery is best effort and a missing or
// stale session is not an error.
type RecipientNotifier interface {
	NotifyUser(userID string, payload []byte) bool
}

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Text           string
}

// SendMessageUseCase appends a message and then advances the conversation's
// denormalized summary (last message text, last-updated timestamp, the
// recipient's unread flag).
//
// The two writes are deliberately not atomic: a crash between them leaves the
// message visible through the feed while the inbox summary stays stale until
// the next successful send. The append always happens first.
type SendMessageUseCase struct {
	Repo repository.ChatRepository

	// Notifier, when set, pings the recipient's socket after a successful
	// send so clients without an open watch can refresh their unread state.
	Notifier RecipientNotifier
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates, appends, and updates the summary.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.Text)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	recipient, ok := conv.Counterpart(in.SenderID)
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	saved, err := uc.Repo.SaveMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := uc.Repo.UpdateSummary(ctx, in.ConversationID, saved.Text, recipient); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if uc.Notifier != nil {
		uc.Notifier.NotifyUser(recipient, notifyPayload(in.ConversationID))
	}
	return &saved, nil
}

func notifyPayload(conversationID string) []byte {
	b, _ := json.Marshal(map[string]string{
		"type":           "notify",
		"conversationId": conversationID,
	})
	return b
}
