package api

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/storage"
	"github.com/pageza/recipeshare/backend/internal/types"
)

type presigner interface {
	PresignedURL(ctx context.Context, name string) (string, error)
}

type localDir interface {
	Dir() string
}

// UploadsHandler serves stored thumbnails and avatars under /uploads/:name.
// Local files are served directly; S3 objects redirect to a presigned URL.
type UploadsHandler struct {
	files storage.FileStore
}

func NewUploadsHandler(files storage.FileStore) *UploadsHandler {
	return &UploadsHandler{files: files}
}

func (h *UploadsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/uploads/:name", h.Serve)
	router.HEAD("/uploads/:name", h.Serve)
}

func (h *UploadsHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if err := storage.ValidateName(name); err != nil {
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "File not found."})
		return
	}

	switch files := h.files.(type) {
	case presigner:
		url, err := files.PresignedURL(c.Request.Context(), name)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.Redirect(http.StatusFound, url)
	case localDir:
		c.File(filepath.Join(files.Dir(), name))
	default:
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "File not found."})
	}
}
