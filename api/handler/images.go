package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/adscout/models"
)

// Images returns a handler for POST /image-proxy and POST /api/v1/images.
// The page is always rendered so lazy-loaded images are visible.
func Images(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}

		images, err := svc.Images(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ImageResponse{Images: images})
	}
}
