package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	queueport "tabangi/internal/infrastructure/queue/port"
	"tabangi/internal/pkg/chat/application/task"
)

// SendMessageController accepts a message for a conversation and enqueues it
// for the background send pipeline. Empty bodies are rejected before the
// queue ever sees them.
type SendMessageController struct {
	queue queueport.Client
}

func NewSendMessageController(queue queueport.Client) *SendMessageController {
	return &SendMessageController{queue: queue}
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}
		senderID := auth.UserID(c)

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message text is empty"})
			return
		}

		payload := task.SendMessageTaskPayload{
			ConversationID: conversationID,
			SenderID:       senderID,
			Text:           req.Text,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		// MaxRetry 0: failed sends surface once; the client resubmits.
		opts := queueport.EnqueueOption{Queue: "chat", MaxRetry: 0}
		id, err := h.queue.Enqueue(ctx, queueport.Task{Type: task.SendMessageTaskType, Payload: b}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":         "queued",
			"taskId":         id,
			"conversationId": conversationID,
			"sender":         senderID,
		})
	}
}
