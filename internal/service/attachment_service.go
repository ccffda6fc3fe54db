package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/repository/storage"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

const (
	MaxScanSize     = 10 * 1024 * 1024 // 10MB
	MinScanWidth    = 100
	MinScanHeight   = 100
	ThumbnailWidth  = 240
	DisplayWidth    = 1600
	JPEGQuality     = 85
	PresignedExpiry = 15 * time.Minute

	invoiceEntity = "invoices"
)

var (
	ErrScanTooLarge              = errors.New("file too large. Maximum size is 10MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG")
	ErrScanTooSmall              = errors.New("image too small. Minimum 100x100 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrAttachmentStorageDisabled = errors.New("attachment storage not configured")
)

// AllowedExtensions maps accepted scan extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// scanVariants are stored for every upload; 0 keeps the original width
var scanVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ThumbnailWidth},
	{"display", DisplayWidth},
	{"original", 0},
}

// AttachmentURLs are time-limited links to the stored variants of a scan
type AttachmentURLs struct {
	ThumbnailURL string    `json:"thumbnailUrl"`
	DisplayURL   string    `json:"displayUrl"`
	OriginalURL  string    `json:"originalUrl"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AttachmentService stores invoice scans in object storage
type AttachmentService struct {
	eventSink
	invoiceRepo domain.InvoiceRepository
	storage     storage.ObjectStore
}

// NewAttachmentService creates a new AttachmentService. store may be nil when storage is not configured.
func NewAttachmentService(invoiceRepo domain.InvoiceRepository, store storage.ObjectStore) *AttachmentService {
	return &AttachmentService{invoiceRepo: invoiceRepo, storage: store}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode checks size, extension and dimensions, returning the decoded image
func (s *AttachmentService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxScanSize {
		return nil, ErrScanTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinScanWidth || bounds.Dy() < MinScanHeight {
		return nil, ErrScanTooSmall
	}
	return img, nil
}

// UploadInvoiceScan resizes the scan into JPEG variants, uploads them and links them to the invoice.
// A previous scan is removed once the new one is stored.
func (s *AttachmentService) UploadInvoiceScan(ctx context.Context, workspaceID, siteID, invoiceID int32, data []byte, filename string) (*domain.Invoice, error) {
	if !s.IsEnabled() {
		return nil, ErrAttachmentStorageDisabled
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, workspaceID, siteID, invoiceID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	basePath := storage.NewBasePath(workspaceID, siteID, invoiceEntity, invoiceID)
	uploaded := make([]string, 0, len(scanVariants))

	for _, variant := range scanVariants {
		processed := img
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.VariantPath(basePath, variant.name, ".jpg")
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	updated, err := s.invoiceRepo.SetAttachment(ctx, workspaceID, siteID, invoiceID, &basePath)
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	if invoice.AttachmentPath != nil && *invoice.AttachmentPath != basePath {
		if err := s.DeleteVariants(ctx, *invoice.AttachmentPath); err != nil {
			log.Warn().Err(err).Int32("invoice_id", invoiceID).Msg("Failed to remove replaced invoice scan")
		}
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("invoice_id", invoiceID).
		Str("path", basePath).
		Msg("Invoice scan uploaded")
	s.publishEvent(workspaceID, websocket.EntryUpdated(websocket.EntityTypeInvoice, siteID, updated))
	return updated, nil
}

// GetInvoiceScanURLs returns presigned links to the scan of an invoice
func (s *AttachmentService) GetInvoiceScanURLs(ctx context.Context, workspaceID, siteID, invoiceID int32) (*AttachmentURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrAttachmentStorageDisabled
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, workspaceID, siteID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.AttachmentPath == nil {
		return nil, domain.ErrInvoiceAttachmentMissing
	}

	urls := make(map[string]string, len(scanVariants))
	for _, variant := range scanVariants {
		url, err := s.storage.GeneratePresignedURL(ctx, storage.VariantPath(*invoice.AttachmentPath, variant.name, ".jpg"), PresignedExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s variant: %w", variant.name, err)
		}
		urls[variant.name] = url
	}

	return &AttachmentURLs{
		ThumbnailURL: urls["thumb"],
		DisplayURL:   urls["display"],
		OriginalURL:  urls["original"],
		ExpiresAt:    time.Now().UTC().Add(PresignedExpiry),
	}, nil
}

// DeleteVariants removes every stored variant of a scan. Missing objects are not an error.
func (s *AttachmentService) DeleteVariants(ctx context.Context, basePath string) error {
	if !s.IsEnabled() {
		return ErrAttachmentStorageDisabled
	}

	var errs []error
	for _, variant := range scanVariants {
		if err := s.storage.Delete(ctx, storage.VariantPath(basePath, variant.name, ".jpg")); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cleanup removes variants uploaded during a failed operation, ignoring errors
func (s *AttachmentService) cleanup(ctx context.Context, paths []string) {
	for _, p := range paths {
		_ = s.storage.Delete(ctx, p)
	}
}
