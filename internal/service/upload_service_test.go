package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/testutil"
	"github.com/google/uuid"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		png.Encode(&buf, img)
		return buf.Bytes(), "test.png"
	}
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	return buf.Bytes(), "test.jpg"
}

func TestValidateImage(t *testing.T) {
	svc := NewUploadService(nil)
	validJPEG, jpegName := createTestImage(100, 100, "jpeg")
	validPNG, pngName := createTestImage(100, 100, "png")
	small, smallName := createTestImage(30, 30, "jpeg")

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{"valid jpeg", validJPEG, jpegName, nil},
		{"valid png", validPNG, pngName, nil},
		{"too large", make([]byte, MaxReceiptSize+1), "test.jpg", ErrFileTooLarge},
		{"unsupported extension", validJPEG, "test.gif", ErrInvalidFormat},
		{"too small", small, smallName, ErrImageTooSmall},
		{"not an image", []byte("not an image"), "test.jpg", ErrInvalidImageData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateImage(tt.data, tt.filename, MaxReceiptSize)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUploadReceipt(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewUploadService(files)
	userID := uuid.New()
	data, filename := createTestImage(640, 480, "png")

	result, err := svc.UploadReceipt(context.Background(), userID, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	prefix := "receipts/" + userID.String() + "/" + result.ID
	if result.Path != prefix+"_original.jpg" {
		t.Errorf("unexpected path %s", result.Path)
	}
	if result.ThumbnailPath != prefix+"_thumb.jpg" {
		t.Errorf("unexpected thumbnail path %s", result.ThumbnailPath)
	}
	if result.URL != "https://files.test/"+result.Path {
		t.Errorf("unexpected url %s", result.URL)
	}

	thumb, err := jpeg.Decode(bytes.NewReader(files.Files[result.ThumbnailPath]))
	if err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
	if thumb.Bounds().Dx() != ThumbnailWidth || thumb.Bounds().Dy() != 150 {
		t.Errorf("expected %dx150 thumbnail, got %v", ThumbnailWidth, thumb.Bounds())
	}
}

func TestUploadReceipt_CleansUpOnFailure(t *testing.T) {
	files := testutil.NewMockFileRepository()
	files.UploadFn = func(objectPath string) error {
		if strings.HasSuffix(objectPath, "_thumb.jpg") {
			return errors.New("bucket unavailable")
		}
		return nil
	}
	svc := NewUploadService(files)
	data, filename := createTestImage(100, 100, "jpeg")

	if _, err := svc.UploadReceipt(context.Background(), uuid.New(), data, filename); err == nil {
		t.Fatal("expected error")
	}
	if len(files.Files) != 0 {
		t.Errorf("expected original to be removed, found %d files", len(files.Files))
	}
}

func TestUploadDocument(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewUploadService(files)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	userID := uuid.New()

	t.Run("pdf stored as sent", func(t *testing.T) {
		pdf := []byte("%PDF-1.7 statement")
		result, err := svc.UploadDocument(context.Background(), userID, domain.DocumentBankStatement, pdf, "statement.PDF")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := "documents/user_" + userID.String() + "_bankStatement_1700000000.pdf"
		if result.Path != want {
			t.Errorf("expected %s, got %s", want, result.Path)
		}
		if result.ThumbnailPath != "" {
			t.Errorf("pdf should have no thumbnail")
		}
		if !bytes.Equal(files.Files[want], pdf) {
			t.Errorf("stored pdf differs")
		}
	})

	t.Run("image gets thumbnail", func(t *testing.T) {
		data, filename := createTestImage(300, 300, "jpeg")
		result, err := svc.UploadDocument(context.Background(), userID, domain.DocumentCNICFront, data, filename)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasSuffix(result.ThumbnailPath, "_cnicFront_thumb_1700000000.jpg") {
			t.Errorf("unexpected thumbnail path %s", result.ThumbnailPath)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		if _, err := svc.UploadDocument(context.Background(), userID, "passport", []byte("%PDF-"), "a.pdf"); !errors.Is(err, domain.ErrInvalidDocumentType) {
			t.Errorf("expected ErrInvalidDocumentType, got %v", err)
		}
		if _, err := svc.UploadDocument(context.Background(), userID, domain.DocumentSalarySlip, []byte("plain text"), "a.pdf"); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})
}

func TestUploadService_NotConfigured(t *testing.T) {
	svc := NewUploadService(nil)
	if _, err := svc.UploadReceipt(context.Background(), uuid.New(), nil, "a.jpg"); err != ErrFileStorageNotConfigured {
		t.Errorf("expected ErrFileStorageNotConfigured, got %v", err)
	}
	if _, err := svc.URL(context.Background(), "a.jpg"); err != ErrFileStorageNotConfigured {
		t.Errorf("expected ErrFileStorageNotConfigured, got %v", err)
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"test.jpg", "image/jpeg"},
		{"test.JPEG", "image/jpeg"},
		{"test.png", "image/png"},
		{"test.pdf", "application/pdf"},
		{"test.gif", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if ct := GetContentType(tt.filename); ct != tt.expected {
				t.Errorf("GetContentType(%s) = %s, expected %s", tt.filename, ct, tt.expected)
			}
		})
	}
}
