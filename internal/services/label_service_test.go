package services_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// recordingUploader captures the upload request and inspects the local
// file while it still exists.
type recordingUploader struct {
	key       string
	localPath string
	pdfHeader []byte
	fileSize  int64
	err       error
}

func (u *recordingUploader) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	u.key = key
	u.localPath = localPath
	if info, err := os.Stat(localPath); err == nil {
		u.fileSize = info.Size()
	}
	if data, err := os.ReadFile(localPath); err == nil && len(data) >= 4 {
		u.pdfHeader = data[:4]
	}
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/" + key, nil
}

func labelTestOrder() *models.Order {
	addr := &models.Address{
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
	}
	return &models.Order{
		ID:            "order-42",
		BookTitle:     "The Guide",
		BookAuthor:    "R. K. Narayan",
		BuyerID:       "buyer-1",
		SellerID:      "seller-1",
		BuyerAddress:  addr,
		SellerAddress: addr,
	}
}

func newLabelService(uploader services.ObjectUploader) *services.LabelService {
	users := repositories.NewMockUserRepository()
	users.Create(&models.User{ID: "buyer-1", Username: "buyer", Email: "b@example.com", DisplayName: "Asha Rao"})
	users.Create(&models.User{ID: "seller-1", Username: "seller", Email: "s@example.com"})
	return services.NewLabelService(uploader, users, zap.NewNop())
}

func TestGenerateLabelUploadsUnderDeterministicKey(t *testing.T) {
	uploader := &recordingUploader{}
	svc := newLabelService(uploader)

	url, err := svc.GenerateLabel(context.Background(), labelTestOrder())
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/shipping_labels/order-42.pdf", url)
	assert.Equal(t, "shipping_labels/order-42.pdf", uploader.key)

	// The uploaded file was a real PDF.
	assert.Equal(t, []byte("%PDF"), uploader.pdfHeader)
	assert.Greater(t, uploader.fileSize, int64(0))

	// The temp file is gone after the call.
	_, statErr := os.Stat(uploader.localPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateLabelRequiresBothAddresses(t *testing.T) {
	uploader := &recordingUploader{}
	svc := newLabelService(uploader)

	noBuyer := labelTestOrder()
	noBuyer.BuyerAddress = nil
	_, err := svc.GenerateLabel(context.Background(), noBuyer)
	assert.ErrorIs(t, err, apperrors.ErrMissingAddress)

	noSeller := labelTestOrder()
	noSeller.SellerAddress = nil
	_, err = svc.GenerateLabel(context.Background(), noSeller)
	assert.ErrorIs(t, err, apperrors.ErrMissingAddress)

	// No upload was attempted in either case.
	assert.Empty(t, uploader.key)
}

func TestGenerateLabelCleansUpOnUploadFailure(t *testing.T) {
	uploader := &recordingUploader{err: fmt.Errorf("bucket unavailable")}
	svc := newLabelService(uploader)

	_, err := svc.GenerateLabel(context.Background(), labelTestOrder())
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)

	// The temp file is removed on the failure path too.
	assert.NotEmpty(t, uploader.localPath)
	_, statErr := os.Stat(uploader.localPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLabelKey(t *testing.T) {
	assert.Equal(t, "shipping_labels/abc.pdf", services.LabelKey("abc"))
}
