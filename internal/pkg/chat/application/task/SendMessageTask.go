package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	qport "tabangi/internal/infrastructure/queue/port"
	chat "tabangi/internal/pkg/chat/application/domain"
	"tabangi/internal/pkg/chat/application/usecase"
)

// SendMessageTaskType is the queue task name for sending a message within the chat domain.
const SendMessageTaskType = "chat:send_message"

// SendMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type SendMessageTaskPayload struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
}

// RegisterSendMessageTask binds the task handler to the provided server.
// Validation failures are dropped with a log line rather than returned:
// re-running an invalid payload can never succeed, and the delivery contract
// is manual resubmission, not queue-side retry.
func RegisterSendMessageTask(srv qport.Server, uc *usecase.SendMessageUseCase, log zerolog.Logger) {
	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			log.Error().Err(err).Msg("send task: malformed payload, dropping")
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			ConversationID: p.ConversationID,
			SenderID:       p.SenderID,
			Text:           p.Text,
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, chat.ErrEmptyMessage),
			errors.Is(err, chat.ErrInvalidParticipants),
			errors.Is(err, chat.ErrNotParticipant),
			errors.Is(err, chat.ErrNotFound):
			log.Error().Err(err).Str("conversation", p.ConversationID).Msg("send task: rejected, dropping")
			return nil
		default:
			return err
		}
	})
}
