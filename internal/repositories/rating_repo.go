package repositories

import (
	"bookbazaar/internal/models"
)

// RatingRepository defines the interface for rating data access. Ratings
// are append-only: there is no update or delete.
type RatingRepository interface {
	Create(rating *models.Rating) error
	GetBySeller(sellerID string) ([]models.Rating, error)
}
