package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/pkg/profile/application/usecase"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// ListCandidatesController serves a browse screen: one instance is bound per
// audience, returning the profiles that opted into being shown to it.
type ListCandidatesController struct {
	listUC   *usecase.ListCandidatesUseCase
	audience repository.Audience
}

func NewListCandidatesController(listUC *usecase.ListCandidatesUseCase, audience repository.Audience) *ListCandidatesController {
	return &ListCandidatesController{listUC: listUC, audience: audience}
}

func (h *ListCandidatesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := h.listUC.Execute(c.Request.Context(), h.audience)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"candidates": toProfileResponses(profiles)})
	}
}
