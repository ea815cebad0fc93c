package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize  = 5 * 1024 * 1024  // 5MB
	MaxDocumentSize = 10 * 1024 * 1024 // 10MB
	MinImageWidth   = 50
	MinImageHeight  = 50
	ThumbnailWidth  = 200
	JPEGQuality     = 85
)

var (
	ErrFileTooLarge             = errors.New("file too large")
	ErrInvalidFormat            = errors.New("invalid format. Supported: JPEG, PNG (and PDF for documents)")
	ErrImageTooSmall            = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData         = errors.New("invalid image data")
	ErrFileStorageNotConfigured = errors.New("file storage not configured")
)

// imageExtensions maps accepted image extensions to content types
var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var pdfMagic = []byte("%PDF-")

// UploadResult holds the stored object paths of an upload. Paths, not URLs,
// are persisted; URLs are generated per request.
type UploadResult struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
	URL           string `json:"url"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
}

// UploadService validates uploads and stores them with a thumbnail variant
type UploadService struct {
	storage storage.FileRepository
	now     func() time.Time
}

// NewUploadService creates a new UploadService
func NewUploadService(storage storage.FileRepository) *UploadService {
	return &UploadService{storage: storage, now: time.Now}
}

// IsEnabled indicates whether uploads are supported (storage configured).
func (s *UploadService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage checks the size, extension, and dimensions of an image
func (s *UploadService) ValidateImage(data []byte, filename string, maxSize int) error {
	_, err := decodeImage(data, filename, maxSize)
	return err
}

func decodeImage(data []byte, filename string, maxSize int) (image.Image, error) {
	if len(data) > maxSize {
		return nil, ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// UploadReceipt stores a payment or payout receipt as an original and a
// thumbnail JPEG.
func (s *UploadService) UploadReceipt(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*UploadResult, error) {
	if !s.IsEnabled() {
		return nil, ErrFileStorageNotConfigured
	}
	img, err := decodeImage(data, filename, MaxReceiptSize)
	if err != nil {
		return nil, err
	}

	uploadID := uuid.New().String()
	result := &UploadResult{ID: uploadID}

	result.Path, err = s.putJPEG(ctx, storage.ReceiptObjectPath(userID, uploadID, "original", ".jpg"), img)
	if err != nil {
		return nil, err
	}
	result.ThumbnailPath, err = s.putJPEG(ctx, storage.ReceiptObjectPath(userID, uploadID, "thumb", ".jpg"), thumbnail(img))
	if err != nil {
		s.cleanup(ctx, result.Path)
		return nil, err
	}

	if err := s.resolveURLs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UploadDocument stores a verification document. Images also get a
// thumbnail; PDFs are stored as sent.
func (s *UploadService) UploadDocument(ctx context.Context, userID uuid.UUID, docType domain.DocumentType, data []byte, filename string) (*UploadResult, error) {
	if !s.IsEnabled() {
		return nil, ErrFileStorageNotConfigured
	}
	if !domain.IsValidDocumentType(docType) {
		return nil, domain.ErrInvalidDocumentType
	}

	at := s.now()
	ext := strings.ToLower(filepath.Ext(filename))
	result := &UploadResult{ID: uuid.New().String()}

	if ext == ".pdf" {
		if len(data) > MaxDocumentSize {
			return nil, ErrFileTooLarge
		}
		if !bytes.HasPrefix(data, pdfMagic) {
			return nil, ErrInvalidFormat
		}
		objectPath := storage.DocumentObjectPath(userID, string(docType), at, ".pdf")
		stored, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(data), "application/pdf", int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to upload document: %w", err)
		}
		result.Path = stored
	} else {
		img, err := decodeImage(data, filename, MaxDocumentSize)
		if err != nil {
			return nil, err
		}
		result.Path, err = s.putJPEG(ctx, storage.DocumentObjectPath(userID, string(docType), at, ".jpg"), img)
		if err != nil {
			return nil, err
		}
		result.ThumbnailPath, err = s.putJPEG(ctx, storage.DocumentObjectPath(userID, string(docType)+"_thumb", at, ".jpg"), thumbnail(img))
		if err != nil {
			s.cleanup(ctx, result.Path)
			return nil, err
		}
	}

	if err := s.resolveURLs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// URL returns a retrievable URL for a stored object path
func (s *UploadService) URL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrFileStorageNotConfigured
	}
	return s.storage.URL(ctx, objectPath)
}

func (s *UploadService) putJPEG(ctx context.Context, objectPath string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	stored, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return stored, nil
}

func (s *UploadService) resolveURLs(ctx context.Context, result *UploadResult) error {
	var err error
	if result.URL, err = s.storage.URL(ctx, result.Path); err != nil {
		return err
	}
	if result.ThumbnailPath != "" {
		if result.ThumbnailURL, err = s.storage.URL(ctx, result.ThumbnailPath); err != nil {
			return err
		}
	}
	return nil
}

// cleanup removes a variant left behind by a failed upload
func (s *UploadService) cleanup(ctx context.Context, objectPath string) {
	if err := s.storage.Delete(ctx, objectPath); err != nil {
		log.Warn().Err(err).Str("path", objectPath).Msg("Failed to clean up partial upload")
	}
}

func thumbnail(img image.Image) image.Image {
	if img.Bounds().Dx() <= ThumbnailWidth {
		return img
	}
	return imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := imageExtensions[ext]; ok {
		return ct
	}
	if ext == ".pdf" {
		return "application/pdf"
	}
	return "application/octet-stream"
}
