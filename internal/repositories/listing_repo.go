package repositories

import (
	"bookbazaar/internal/models"
)

// ListingRepository defines the interface for listing data access.
type ListingRepository interface {
	GetAll() ([]models.Listing, error)
	GetByID(id string) (*models.Listing, error)
	GetBySeller(sellerID string) ([]models.Listing, error)
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	// UpdateSellerRating applies the aggregate to every listing owned by
	// the seller as one atomic write: all listings updated together or
	// none, so a seller's listings never show inconsistent ratings.
	UpdateSellerRating(sellerID string, summary models.SellerRatingSummary) error
}
