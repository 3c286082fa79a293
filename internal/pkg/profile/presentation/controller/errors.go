package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/pkg/profile/application/usecase"
	profile "tabangi/internal/pkg/profile/domain"
)

// replyError maps use-case failures to HTTP statuses.
func replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, profile.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
