package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/middleware"
	"github.com/dafibh/committee/committee-backend/internal/repository/storage"
	"github.com/dafibh/committee/committee-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UploadHandler handles receipt and document uploads
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// URLResponse holds a retrievable URL
type URLResponse struct {
	URL string `json:"url"`
}

// readFormFile reads the multipart "file" field
func (h *UploadHandler) readFormFile(c echo.Context) (data []byte, filename string, ok bool, err error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", false, NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return nil, "", false, NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err = io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return nil, "", false, NewInternalError(c, "Failed to read file")
	}
	return data, file.Filename, true, nil
}

// UploadReceipt handles POST /uploads/receipts
func (h *UploadHandler) UploadReceipt(c echo.Context) error {
	if !h.uploadService.IsEnabled() {
		return NewServiceUnavailableError(c, "Uploads are disabled (storage not configured)")
	}
	data, filename, ok, err := h.readFormFile(c)
	if !ok {
		return err
	}

	userID := middleware.GetUserID(c)
	result, err := h.uploadService.UploadReceipt(c.Request().Context(), userID, data, filename)
	if err != nil {
		return h.uploadError(c, err)
	}

	log.Info().Str("user_id", userID.String()).Str("upload_id", result.ID).Msg("Receipt uploaded")
	return c.JSON(http.StatusCreated, result)
}

// UploadDocument handles POST /uploads/documents (form fields: file, docType)
func (h *UploadHandler) UploadDocument(c echo.Context) error {
	if !h.uploadService.IsEnabled() {
		return NewServiceUnavailableError(c, "Uploads are disabled (storage not configured)")
	}
	docType := domain.DocumentType(c.FormValue("docType"))
	if !domain.IsValidDocumentType(docType) {
		return NewValidationError(c, "Invalid document type", []ValidationError{
			{Field: "docType", Message: "Must be one of: bankStatement, salarySlip, cnicFront, cnicBack, utilityBill"},
		})
	}
	data, filename, ok, err := h.readFormFile(c)
	if !ok {
		return err
	}

	userID := middleware.GetUserID(c)
	result, err := h.uploadService.UploadDocument(c.Request().Context(), userID, docType, data, filename)
	if err != nil {
		return h.uploadError(c, err)
	}

	log.Info().Str("user_id", userID.String()).Str("doc_type", string(docType)).Msg("Document uploaded")
	return c.JSON(http.StatusCreated, result)
}

// GetURL handles GET /uploads/url?path=
func (h *UploadHandler) GetURL(c echo.Context) error {
	if !h.uploadService.IsEnabled() {
		return NewServiceUnavailableError(c, "Uploads are disabled (storage not configured)")
	}
	objectPath := c.QueryParam("path")
	if objectPath == "" {
		return NewValidationError(c, "Path required", []ValidationError{
			{Field: "path", Message: "Path is required"},
		})
	}

	url, err := h.uploadService.URL(c.Request().Context(), objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidObjectPath) {
			return NewValidationError(c, "Invalid path", nil)
		}
		log.Error().Err(err).Str("path", objectPath).Msg("Failed to generate file URL")
		return NewInternalError(c, "Failed to generate file URL")
	}
	return c.JSON(http.StatusOK, URLResponse{URL: url})
}

func (h *UploadHandler) uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "File too large"},
		})
	case errors.Is(err, service.ErrInvalidFormat):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: err.Error()},
		})
	case errors.Is(err, service.ErrImageTooSmall):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
		})
	case errors.Is(err, service.ErrInvalidImageData):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "Invalid image data"},
		})
	case errors.Is(err, domain.ErrInvalidDocumentType):
		return NewValidationError(c, "Invalid document type", nil)
	}
	log.Error().Err(err).Str("user_id", middleware.GetUserID(c).String()).Msg("Failed to upload file")
	return NewInternalError(c, "Failed to upload file")
}
