package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/chat/application/usecase"
)

// OpenConversationController handles the thread-open endpoint: it lazily
// creates the conversation on first visit and clears the viewer's unread
// flag on every visit.
type OpenConversationController struct {
	openUC *usecase.OpenConversationUseCase
}

func NewOpenConversationController(openUC *usecase.OpenConversationUseCase) *OpenConversationController {
	return &OpenConversationController{openUC: openUC}
}

func (h *OpenConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		selfID := auth.UserID(c)
		otherID := c.Param("userId")

		conv, err := h.openUC.Execute(c.Request.Context(), usecase.OpenConversationInput{
			SelfID:  selfID,
			OtherID: otherID,
		})
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, toConversationResponse(*conv))
	}
}
