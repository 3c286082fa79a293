package usecase

import (
	"context"
	"fmt"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// GetMessageUseCase fetches the current ordered message list for a
// conversation as a one-shot read.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

// Execute returns all messages ascending by timestamp.
func (uc *GetMessageUseCase) Execute(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if conversationID == "" {
		return nil, chat.ErrInvalidParticipants
	}
	msgs, err := uc.Repo.MessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return msgs, nil
}
