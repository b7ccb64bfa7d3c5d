package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// UploadURLSigner signs direct-to-bucket upload URLs
type UploadURLSigner interface {
	GenerateUploadURL(ctx context.Context) (string, error)
}

// UploadHandler hands out presigned object-storage upload URLs so banner
// images never pass through this server
type UploadHandler struct {
	signer UploadURLSigner
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(signer UploadURLSigner) *UploadHandler {
	return &UploadHandler{signer: signer}
}

// RegisterUploadRoutes registers the upload URL route
func (h *UploadHandler) RegisterUploadRoutes(e *echo.Echo) {
	e.GET("/api/upload-url", h.GetUploadURL)
}

// GetUploadURL returns a fresh presigned PUT URL
func (h *UploadHandler) GetUploadURL(c echo.Context) error {
	url, err := h.signer.GenerateUploadURL(c.Request().Context())
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while generating upload URL", nil)
	}
	return respond(c, http.StatusOK, "Upload URL generated", echo.Map{"upload_Url": url})
}
