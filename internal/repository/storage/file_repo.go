package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PresignExpiry is how long a generated download URL stays valid
const PresignExpiry = 15 * time.Minute

var ErrInvalidObjectPath = errors.New("invalid object path")

// FileRepository stores uploaded receipts and verification documents.
// Upload returns the object path, not a URL; URLs are generated on demand.
type FileRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	URL(ctx context.Context, objectPath string) (string, error)
}

// ReceiptObjectPath builds the path of a payment or payout receipt variant
func ReceiptObjectPath(userID uuid.UUID, uploadID string, variant string, ext string) string {
	return path.Join("receipts", userID.String(), fmt.Sprintf("%s_%s%s", uploadID, variant, ext))
}

// DocumentObjectPath builds user_{id}_{docType}_{unix}{ext} under documents/
func DocumentObjectPath(userID uuid.UUID, docType string, at time.Time, ext string) string {
	return path.Join("documents", fmt.Sprintf("user_%s_%s_%d%s", userID, docType, at.Unix(), ext))
}

// CleanObjectPath rejects absolute paths and parent traversal
func CleanObjectPath(objectPath string) (string, error) {
	if objectPath == "" || strings.HasPrefix(objectPath, "/") {
		return "", ErrInvalidObjectPath
	}
	cleaned := path.Clean(objectPath)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidObjectPath
	}
	return cleaned, nil
}
