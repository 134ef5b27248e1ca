package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const msgBadBody = "Invalid request body."

// paramID parses the :id path parameter. A malformed id cannot match any
// record, so it is reported with notFoundMsg.
func paramID(c *gin.Context, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(service.NotFound(notFoundMsg))
		return uuid.Nil, false
	}
	return id, true
}

// requester returns the authenticated caller; routes using it sit behind
// middleware.AuthMiddleware.
func requester(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(middleware.StatusNoToken, types.MessageResponse{Message: "Unathorized. No token. Login to continue..!"})
	}
	return id, ok
}

// formUpload opens the multipart file in field. A request without that file
// yields a nil upload and a no-op closer.
func formUpload(c *gin.Context, field string) (*types.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, service.Validation("File upload error")
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*types.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, service.Internal("File upload error", err)
	}
	upload := &types.Upload{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	}
	return upload, func() { _ = file.Close() }, nil
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, types.MessageResponse{Message: msg})
}
