package repositories

import (
	"fmt"
	"sync"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"

	"github.com/google/uuid"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
type MockListingRepository struct {
	listings map[string]models.Listing
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]models.Listing),
	}
}

// GetAll returns all listings.
func (r *MockListingRepository) GetAll() ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listingList := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		listingList = append(listingList, l)
	}
	return listingList, nil
}

// GetByID returns a listing by its ID.
func (r *MockListingRepository) GetByID(id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &listing, nil
}

// GetBySeller returns all listings owned by the given seller.
func (r *MockListingRepository) GetBySeller(sellerID string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Listing
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create adds a new listing.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.Status == "" {
		listing.Status = models.ListingAvailable
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Update replaces an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return fmt.Errorf("listing with ID %s: %w", listing.ID, apperrors.ErrNotFound)
	}
	r.listings[listing.ID] = *listing
	return nil
}

// UpdateSellerRating applies the aggregate to every listing of the seller.
// The single lock makes the fan-out atomic, mirroring the transactional
// GORM implementation.
func (r *MockListingRepository) UpdateSellerRating(sellerID string, summary models.SellerRatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.listings {
		if l.SellerID == sellerID {
			l.SellerRating = summary.Average
			l.SellerRatingCount = summary.Count
			r.listings[id] = l
		}
	}
	return nil
}
