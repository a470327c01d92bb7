package repositories

import (
	"errors"
	"fmt"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves all listings from the database.
func (r *GORMListingRepository) GetAll() ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all listings: %w", apperrors.Remote(err))
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID from the database.
func (r *GORMListingRepository) GetByID(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, apperrors.Remote(err))
	}
	return &listing, nil
}

// GetBySeller retrieves all listings owned by the given seller.
func (r *GORMListingRepository) GetBySeller(sellerID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("seller_id = ?", sellerID).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for seller %s: %w", sellerID, apperrors.Remote(err))
	}
	return listings, nil
}

// Create creates a new listing in the database.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.Status == "" {
		listing.Status = models.ListingAvailable
	}
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", apperrors.Remote(err))
	}
	return nil
}

// Update updates an existing listing in the database.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", apperrors.Remote(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s: %w", listing.ID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateSellerRating applies the rating aggregate to every listing owned
// by the seller inside one transaction, so the fan-out is all-or-nothing.
func (r *GORMListingRepository) UpdateSellerRating(sellerID string, summary models.SellerRatingSummary) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Listing{}).
			Where("seller_id = ?", sellerID).
			Updates(map[string]interface{}{
				"seller_rating":       summary.Average,
				"seller_rating_count": summary.Count,
			}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update seller rating for seller %s: %w", sellerID, apperrors.Remote(err))
	}
	return nil
}
