package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	chat "tabangi/internal/pkg/chat/application/domain"
	"tabangi/internal/pkg/chat/application/usecase"
)

// GetInboxController serves the one-shot conversation list projection with
// optional client-style name filtering via ?q=.
type GetInboxController struct {
	inboxUC *usecase.StreamInboxUseCase
}

func NewGetInboxController(inboxUC *usecase.StreamInboxUseCase) *GetInboxController {
	return &GetInboxController{inboxUC: inboxUC}
}

func (h *GetInboxController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		selfID := auth.UserID(c)
		if selfID == "" {
			// No current user is a valid state: the inbox is simply empty.
			c.JSON(http.StatusOK, gin.H{"chats": []inboxEntryResponse{}})
			return
		}

		entries, err := h.inboxUC.Snapshot(c.Request.Context(), selfID)
		if err != nil {
			replyError(c, err)
			return
		}
		entries = chat.FilterByName(entries, c.Query("q"))
		c.JSON(http.StatusOK, gin.H{"chats": toInboxResponses(selfID, entries)})
	}
}
