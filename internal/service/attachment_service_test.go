package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func attachmentFixture() (*testutil.MockInvoiceRepository, *testutil.MockObjectStore, *AttachmentService) {
	invoices := testutil.NewMockInvoiceRepository()
	invoices.AddInvoice(&domain.Invoice{ID: 3, WorkspaceID: testWorkspace, SiteID: testSite, ApproverType: domain.ApproverTypeSupervisor})
	store := testutil.NewMockObjectStore()
	return invoices, store, NewAttachmentService(invoices, store)
}

func TestUploadInvoiceScan_StoresVariants(t *testing.T) {
	_, store, svc := attachmentFixture()
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	inv, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, pngBytes(t, 400, 300), "scan.PNG")
	require.NoError(t, err)
	require.NotNil(t, inv.AttachmentPath)

	base := *inv.AttachmentPath
	assert.True(t, strings.HasPrefix(base, "1/sites/10/invoices/3/"), base)
	assert.Equal(t, []string{base + "_display.jpg", base + "_original.jpg", base + "_thumb.jpg"}, store.Paths())

	thumb, _, err := image.Decode(bytes.NewReader(store.Objects[base+"_thumb.jpg"]))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, []string{"invoice.updated"}, publisher.Types())
}

func TestUploadInvoiceScan_ReplacesPrevious(t *testing.T) {
	_, store, svc := attachmentFixture()

	first, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, pngBytes(t, 120, 120), "a.png")
	require.NoError(t, err)
	oldBase := *first.AttachmentPath

	second, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, pngBytes(t, 120, 120), "b.png")
	require.NoError(t, err)

	assert.NotEqual(t, oldBase, *second.AttachmentPath)
	assert.Len(t, store.Paths(), 3)
	assert.Contains(t, store.Deleted, oldBase+"_original.jpg")
}

func TestUploadInvoiceScan_Validation(t *testing.T) {
	_, _, svc := attachmentFixture()

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{"too large", make([]byte, MaxScanSize+1), "a.png", ErrScanTooLarge},
		{"bad extension", pngBytes(t, 120, 120), "a.pdf", ErrInvalidFormat},
		{"not an image", []byte("hello"), "a.png", ErrInvalidImageData},
		{"too small", pngBytes(t, 50, 50), "a.png", ErrScanTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, tt.data, tt.filename)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadInvoiceScan_UploadFailureCleansUp(t *testing.T) {
	invoices, store, svc := attachmentFixture()
	store.FailAfter = 2

	_, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, pngBytes(t, 120, 120), "a.png")
	require.Error(t, err)

	assert.Empty(t, store.Paths())
	inv, _ := invoices.GetByID(context.Background(), testWorkspace, testSite, 3)
	assert.Nil(t, inv.AttachmentPath)
}

func TestUploadInvoiceScan_InvoiceNotFound(t *testing.T) {
	_, _, svc := attachmentFixture()

	_, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 99, pngBytes(t, 120, 120), "a.png")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestAttachmentService_Disabled(t *testing.T) {
	svc := NewAttachmentService(testutil.NewMockInvoiceRepository(), nil)

	assert.False(t, svc.IsEnabled())
	_, err := svc.UploadInvoiceScan(context.Background(), 1, 1, 1, nil, "a.png")
	assert.True(t, errors.Is(err, ErrAttachmentStorageDisabled))
	_, err = svc.GetInvoiceScanURLs(context.Background(), 1, 1, 1)
	assert.True(t, errors.Is(err, ErrAttachmentStorageDisabled))
}

func TestGetInvoiceScanURLs(t *testing.T) {
	_, _, svc := attachmentFixture()

	_, err := svc.GetInvoiceScanURLs(context.Background(), testWorkspace, testSite, 3)
	assert.ErrorIs(t, err, domain.ErrInvoiceAttachmentMissing)

	inv, err := svc.UploadInvoiceScan(context.Background(), testWorkspace, testSite, 3, pngBytes(t, 120, 120), "a.jpg.png")
	require.NoError(t, err)

	urls, err := svc.GetInvoiceScanURLs(context.Background(), testWorkspace, testSite, 3)
	require.NoError(t, err)
	assert.Contains(t, urls.ThumbnailURL, *inv.AttachmentPath+"_thumb.jpg")
	assert.Contains(t, urls.DisplayURL, "_display.jpg")
	assert.Contains(t, urls.OriginalURL, "expires=900")
}
