package repositories

import (
	"fmt"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Create appends a new rating record, assigning an id.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if err := r.db.Create(rating).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", apperrors.Remote(err))
	}
	return nil
}

// GetBySeller retrieves all ratings for the given seller, with their
// store-assigned ids attached.
func (r *GORMRatingRepository) GetBySeller(sellerID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to get ratings for seller %s: %w", sellerID, apperrors.Remote(err))
	}
	return ratings, nil
}
