package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/pkg/chat/application/usecase"
)

// GetMessageController serves the one-shot ordered message list for a
// conversation.
type GetMessageController struct {
	getUC *usecase.GetMessageUseCase
}

func NewGetMessageController(getUC *usecase.GetMessageUseCase) *GetMessageController {
	return &GetMessageController{getUC: getUC}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := h.getUC.Execute(c.Request.Context(), c.Param("conversationId"))
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": toMessageResponses(msgs)})
	}
}
