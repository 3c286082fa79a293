package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/pkg/profile/application/usecase"
)

// UploadPhotoController accepts a multipart photo, pushes it to the hosted
// media service and stores the resulting URL on the profile.
type UploadPhotoController struct {
	uploadUC *usecase.UploadPhotoUseCase
}

func NewUploadPhotoController(uploadUC *usecase.UploadPhotoUseCase) *UploadPhotoController {
	return &UploadPhotoController{uploadUC: uploadUC}
}

const maxPhotoBytes = 10 << 20

func (h *UploadPhotoController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
			return
		}
		defer file.Close()

		if header.Size > maxPhotoBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo exceeds 10MB"})
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}

		url, err := h.uploadUC.Execute(c.Request.Context(), auth.UserID(c), header.Filename, data)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"photoURL": url})
	}
}
