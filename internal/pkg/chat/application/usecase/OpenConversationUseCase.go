package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// OpenConversationInput identifies the thread being opened: the viewer and
// the counterpart.
type OpenConversationInput struct {
	SelfID  string
	OtherID string
}

// OpenConversationUseCase runs when a user visits a message thread. It
// creates the conversation lazily on first visit and clears the viewer's own
// unread flag on every visit, leaving all other fields untouched. Repeated
// calls with the same pair are idempotent.
type OpenConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewOpenConversationUseCase(repo repository.ChatRepository) *OpenConversationUseCase {
	return &OpenConversationUseCase{Repo: repo}
}

// Execute ensures the conversation exists and returns its current state.
func (uc *OpenConversationUseCase) Execute(ctx context.Context, in OpenConversationInput) (*chat.Conversation, error) {
	id, err := chat.ConversationID(in.SelfID, in.OtherID)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversation(ctx, id)
	if errors.Is(err, chat.ErrNotFound) {
		created, err := chat.NewConversation(in.SelfID, in.OtherID)
		if err != nil {
			return nil, err
		}
		if err := uc.Repo.CreateConversation(ctx, created); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return &created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := uc.Repo.SetUnread(ctx, id, in.SelfID, false); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	conv.Unread[in.SelfID] = false
	return conv, nil
}
