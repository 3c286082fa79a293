package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/profile/application/usecase"
)

// ChooseRoleController records the role picked on the continue screen.
type ChooseRoleController struct {
	roleUC *usecase.ChooseRoleUseCase
}

func NewChooseRoleController(roleUC *usecase.ChooseRoleUseCase) *ChooseRoleController {
	return &ChooseRoleController{roleUC: roleUC}
}

type chooseRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *ChooseRoleController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chooseRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		role, err := h.roleUC.Execute(c.Request.Context(), auth.UserID(c), req.Role)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": string(role)})
	}
}
