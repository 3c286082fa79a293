package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/profile/application/usecase"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// SetVisibilityController flips a browse-screen visibility flag for the
// caller.
type SetVisibilityController struct {
	visUC *usecase.SetVisibilityUseCase
}

func NewSetVisibilityController(visUC *usecase.SetVisibilityUseCase) *SetVisibilityController {
	return &SetVisibilityController{visUC: visUC}
}

type setVisibilityRequest struct {
	Audience string `json:"audience" binding:"required"`
	Visible  *bool  `json:"visible" binding:"required"`
}

func (h *SetVisibilityController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setVisibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		audience := repository.Audience(req.Audience)
		if audience != repository.AudienceHouseholds && audience != repository.AudienceHousekeepers {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audience must be households or housekeepers"})
			return
		}

		if err := h.visUC.Execute(c.Request.Context(), auth.UserID(c), audience, *req.Visible); err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"audience": string(audience), "visible": *req.Visible})
	}
}
