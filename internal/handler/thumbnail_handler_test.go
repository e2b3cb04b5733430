package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportscast/sportscast-api-go/internal/models"
	"github.com/sportscast/sportscast-api-go/internal/thumbnail"
)

func newThumbnailRouter(gen thumbnail.Generator) *gin.Engine {
	h := NewThumbnailHandler(gen)
	router := gin.New()
	router.POST("/api/thumbnails/generate", h.Generate)
	return router
}

func TestGenerateEndpoint(t *testing.T) {
	router := newThumbnailRouter(&stubGenerator{
		img: &thumbnail.Image{Data: []byte("png bytes"), MIME: "image/png"},
	})

	w := postJSON(router, "/api/thumbnails/generate", `{"prompt":"a dramatic overhead shot of a stadium"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.GenerateThumbnailResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ThumbnailDataURI, "data:image/png;base64,"))

	// The data URI round-trips back to the original image.
	img, err := thumbnail.ParseDataURI(resp.ThumbnailDataURI)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), img.Data)
}

func TestGenerateEndpointMissingPrompt(t *testing.T) {
	router := newThumbnailRouter(&stubGenerator{})

	w := postJSON(router, "/api/thumbnails/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpointServiceFailure(t *testing.T) {
	router := newThumbnailRouter(&stubGenerator{
		err: &thumbnail.GenerationError{Message: "model unavailable"},
	})

	w := postJSON(router, "/api/thumbnails/generate", `{"prompt":"a stadium"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bad Gateway", resp.Error)
}
