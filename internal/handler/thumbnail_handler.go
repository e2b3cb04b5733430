package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sportscast/sportscast-api-go/internal/models"
	"github.com/sportscast/sportscast-api-go/internal/thumbnail"
)

// ThumbnailHandler handles AI thumbnail generation requests.
type ThumbnailHandler struct {
	generator thumbnail.Generator
}

// NewThumbnailHandler creates a new ThumbnailHandler instance.
func NewThumbnailHandler(generator thumbnail.Generator) *ThumbnailHandler {
	return &ThumbnailHandler{
		generator: generator,
	}
}

// Generate produces a thumbnail image from a text prompt and returns it as a
// data URI. The uploader previews the image and submits the URI with the
// upload; failures are reported for manual retry.
func (h *ThumbnailHandler) Generate(c *gin.Context) {
	var req models.GenerateThumbnailRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	img, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		handleError(c, err)
		return
	}

	uri := fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))

	c.JSON(http.StatusOK, models.GenerateThumbnailResponseDTO{
		ThumbnailDataURI: uri,
	})
}
