package services

import (
	"context"
	"fmt"
	"os"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// ObjectUploader is the object store surface label generation depends on.
type ObjectUploader interface {
	// UploadFile uploads the file at localPath under key and returns a
	// durable download URL.
	UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error)
}

// LabelService renders shipping label PDFs and uploads them to object
// storage.
type LabelService struct {
	uploader ObjectUploader
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewLabelService creates a new LabelService.
func NewLabelService(uploader ObjectUploader, userRepo repositories.UserRepository, logger *zap.Logger) *LabelService {
	return &LabelService{
		uploader: uploader,
		userRepo: userRepo,
		logger:   logger,
	}
}

// LabelKey returns the deterministic object storage key for an order's
// shipping label. Re-generating a label overwrites the same object, so a
// retry after a partial failure converges instead of orphaning files.
func LabelKey(orderID string) string {
	return "shipping_labels/" + orderID + ".pdf"
}

// GenerateLabel renders a PDF shipping label for the order, uploads it
// and returns the durable URL. Both buyer and seller addresses must be
// present. The temporary local file is removed on success and failure
// alike.
func (s *LabelService) GenerateLabel(ctx context.Context, order *models.Order) (string, error) {
	if order.BuyerAddress == nil {
		return "", fmt.Errorf("order %s has no buyer address: %w", order.ID, apperrors.ErrMissingAddress)
	}
	if order.SellerAddress == nil {
		return "", fmt.Errorf("order %s has no seller address: %w", order.ID, apperrors.ErrMissingAddress)
	}

	tmp, err := os.CreateTemp("", "shipping-label-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for label: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			s.logger.Warn("failed to remove temporary label file",
				zap.String("path", tmpPath), zap.Error(removeErr))
		}
	}()

	if err := s.renderLabel(order, tmpPath); err != nil {
		return "", fmt.Errorf("failed to render shipping label for order %s: %w", order.ID, err)
	}

	url, err := s.uploader.UploadFile(ctx, LabelKey(order.ID), tmpPath, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to upload shipping label for order %s: %w", order.ID, apperrors.Remote(err))
	}

	s.logger.Info("shipping label generated",
		zap.String("order_id", order.ID), zap.String("url", url))
	return url, nil
}

// renderLabel writes the label PDF to path: recipient block, sender
// block, and the order reference line.
func (s *LabelService) renderLabel(order *models.Order, path string) error {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetTitle("Shipping Label "+order.ID, false)
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "SHIP TO", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 4.5, order.BuyerAddress.FormattedString(s.displayName(order.BuyerID)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, "FROM", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4, order.SellerAddress.FormattedString(s.displayName(order.SellerID)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(0, 3.5, fmt.Sprintf("Order: %s\n%s - %s", order.ID, order.BookTitle, order.BookAuthor), "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf output failed: %w", err)
	}
	return nil
}

// displayName resolves a user's printable name. The name is cosmetic on
// the label, so lookup failures degrade to an empty prefix.
func (s *LabelService) displayName(userID string) string {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Debug("could not resolve display name for label", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}
