package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/dto"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/services"
)

// UploadImage accepts either a multipart "file" field or a JSON body
// {"file": "data:image/...;base64,..."} and answers {url, public_id}.
func UploadImage(svc *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			img models.Image
			err error
		)
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			fh, ferr := c.FormFile("file")
			if ferr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "No file provided"})
				return
			}
			img, err = svc.UploadFile(c.Request.Context(), fh)
		} else {
			var body dto.UploadImageDTO
			if bindErr := c.ShouldBindJSON(&body); bindErr != nil || strings.TrimSpace(body.File) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "No file provided"})
				return
			}
			img, err = svc.UploadEncoded(c.Request.Context(), body.File)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, img)
	}
}
