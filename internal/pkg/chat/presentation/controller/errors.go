package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "tabangi/internal/pkg/chat/application/domain"
	"tabangi/internal/pkg/chat/application/usecase"
)

// replyError maps use-case failures to HTTP statuses. Store failures come
// back as 503 so the client knows to resubmit; nothing is retried here.
func replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidParticipants), errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
