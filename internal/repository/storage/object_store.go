package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStore stores invoice scans and other binary attachments
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// NewBasePath creates a unique base path for the variants of one upload:
// <workspace>/sites/<site>/<entity>/<entityID>/<uuid>
func NewBasePath(workspaceID, siteID int32, entityType string, entityID int32) string {
	return path.Join(
		fmt.Sprintf("%d", workspaceID),
		"sites", fmt.Sprintf("%d", siteID),
		entityType, fmt.Sprintf("%d", entityID),
		uuid.New().String(),
	)
}

// VariantPath appends a variant suffix and extension to a base path
func VariantPath(basePath, variant, ext string) string {
	return fmt.Sprintf("%s_%s%s", basePath, variant, ext)
}
