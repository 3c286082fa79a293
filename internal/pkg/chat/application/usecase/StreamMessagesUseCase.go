package usecase

import (
	"context"
	"fmt"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// StreamMessagesUseCase establishes the live message feed for one
// conversation: an immediate snapshot of the current contents followed by a
// fresh ordered snapshot on every change. The stream never ends on its own;
// the caller must Cancel the returned subscription when the screen goes away,
// or it leaks a standing watch against the store.
type StreamMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewStreamMessagesUseCase(repo repository.ChatRepository) *StreamMessagesUseCase {
	return &StreamMessagesUseCase{Repo: repo}
}

// Execute starts the watch. Re-subscribing after cancellation restarts the
// stream from the current full state.
func (uc *StreamMessagesUseCase) Execute(ctx context.Context, conversationID string) (*repository.MessageSubscription, error) {
	if conversationID == "" {
		return nil, chat.ErrInvalidParticipants
	}
	sub, err := uc.Repo.WatchMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sub, nil
}
