package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/profile/application/usecase"
)

// GetProfileController serves profile documents: the caller's own on the /me
// route, anyone's by id on the visit-profile route.
type GetProfileController struct {
	getUC *usecase.GetProfileUseCase
}

func NewGetProfileController(getUC *usecase.GetProfileUseCase) *GetProfileController {
	return &GetProfileController{getUC: getUC}
}

func (h *GetProfileController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			userID = auth.UserID(c)
		}
		p, err := h.getUC.Execute(c.Request.Context(), userID)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProfileResponse(*p))
	}
}
