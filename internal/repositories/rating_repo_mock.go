package repositories

import (
	"sync"

	"bookbazaar/internal/models"

	"github.com/google/uuid"
)

// MockRatingRepository is an in-memory implementation of RatingRepository.
type MockRatingRepository struct {
	ratings []models.Rating
	mu      sync.RWMutex
}

// NewMockRatingRepository creates a new instance of MockRatingRepository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{}
}

// Create appends a new rating record.
func (r *MockRatingRepository) Create(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	r.ratings = append(r.ratings, *rating)
	return nil
}

// GetBySeller returns all ratings for the given seller.
func (r *MockRatingRepository) GetBySeller(sellerID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Rating
	for _, rating := range r.ratings {
		if rating.SellerID == sellerID {
			out = append(out, rating)
		}
	}
	return out, nil
}
