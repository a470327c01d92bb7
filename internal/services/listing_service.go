package services

import (
	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

// ListingService handles business logic related to book listings.
type ListingService struct {
	repo repositories.ListingRepository
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository) *ListingService {
	return &ListingService{
		repo: repo,
	}
}

// GetAllListings retrieves all listings.
func (s *ListingService) GetAllListings() ([]models.Listing, error) {
	return s.repo.GetAll()
}

// GetListingByID retrieves a single listing by its ID.
func (s *ListingService) GetListingByID(id string) (*models.Listing, error) {
	return s.repo.GetByID(id)
}

// GetSellerListings retrieves all listings owned by a seller.
func (s *ListingService) GetSellerListings(sellerID string) ([]models.Listing, error) {
	return s.repo.GetBySeller(sellerID)
}

// CreateListing creates a new listing owned by the authenticated caller.
// The seller id is stamped from the caller identity.
func (s *ListingService) CreateListing(callerID string, listing *models.Listing) error {
	if callerID == "" {
		return apperrors.ErrNotAuthenticated
	}
	listing.SellerID = callerID
	listing.Status = models.ListingAvailable
	return s.repo.Create(listing)
}
