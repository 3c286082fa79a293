package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/profile/application/usecase"
	profile "tabangi/internal/pkg/profile/domain"
)

// SaveDetailsController persists the role-specific profile forms. Each form
// replaces its whole section; the server stamps updatedAt.
type SaveDetailsController struct {
	saveUC *usecase.SaveDetailsUseCase
}

func NewSaveDetailsController(saveUC *usecase.SaveDetailsUseCase) *SaveDetailsController {
	return &SaveDetailsController{saveUC: saveUC}
}

type housekeeperDetailsRequest struct {
	Rate            string   `json:"rate"`
	ServicesOffered []string `json:"servicesOffered"`
	Image           string   `json:"image"`
}

type householdDetailsRequest struct {
	Address        string   `json:"address"`
	ServicesNeeded []string `json:"servicesNeeded"`
	OfferedRate    string   `json:"offeredRate"`
	Image          string   `json:"image"`
}

func (h *SaveDetailsController) HandleHousekeeper() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req housekeeperDetailsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		details := profile.HousekeeperDetails{
			Rate:            req.Rate,
			ServicesOffered: req.ServicesOffered,
			Image:           req.Image,
			UpdatedAt:       time.Now().UTC(),
		}
		if err := h.saveUC.Housekeeper(c.Request.Context(), auth.UserID(c), details); err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "saved"})
	}
}

func (h *SaveDetailsController) HandleHousehold() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req householdDetailsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		details := profile.HouseholdDetails{
			Address:        req.Address,
			ServicesNeeded: req.ServicesNeeded,
			OfferedRate:    req.OfferedRate,
			Image:          req.Image,
			UpdatedAt:      time.Now().UTC(),
		}
		if err := h.saveUC.Household(c.Request.Context(), auth.UserID(c), details); err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "saved"})
	}
}
