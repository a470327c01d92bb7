package services

import (
	"fmt"
	"time"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"

	"go.uber.org/zap"
)

// RatingService handles buyer ratings of sellers and keeps the seller
// aggregate on listings in sync.
type RatingService struct {
	ratingRepo  repositories.RatingRepository
	orderRepo   repositories.OrderRepository
	listingRepo repositories.ListingRepository
	logger      *zap.Logger
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	ratingRepo repositories.RatingRepository,
	orderRepo repositories.OrderRepository,
	listingRepo repositories.ListingRepository,
	logger *zap.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// SubmitRating appends a new immutable rating and recomputes the seller's
// average. BuyerID and the timestamp are stamped server-side from the
// caller identity and current time, overriding whatever the client sent,
// and the seller id is taken from the rated transaction. Each transaction
// can be rated exactly once.
func (s *RatingService) SubmitRating(callerID string, rating *models.Rating) error {
	if callerID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if rating.Value < 1 || rating.Value > 5 {
		return fmt.Errorf("rating value must be between 1 and 5, got %d", rating.Value)
	}
	if rating.TransactionID == "" {
		return fmt.Errorf("rating must reference a transaction")
	}

	order, err := s.orderRepo.GetByID(rating.TransactionID)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", rating.TransactionID, err)
	}
	if order.BuyerID != callerID {
		return fmt.Errorf("only the buyer of transaction %s can rate its seller", rating.TransactionID)
	}
	if order.IsSellerRated {
		return fmt.Errorf("transaction %s has already been rated", rating.TransactionID)
	}

	rating.BuyerID = callerID        // stamped from caller identity
	rating.SellerID = order.SellerID // stamped from the transaction
	rating.CreatedAt = time.Now()    // stamped server-side

	if err := s.ratingRepo.Create(rating); err != nil {
		return fmt.Errorf("failed to submit rating: %w", err)
	}
	if err := s.orderRepo.MarkSellerRated(order.ID); err != nil {
		return fmt.Errorf("failed to mark transaction %s as rated: %w", order.ID, err)
	}

	if err := s.UpdateSellerAverageRating(rating.SellerID); err != nil {
		// The rating itself is stored; the aggregate catches up on the
		// next submission.
		s.logger.Warn("failed to refresh seller average rating",
			zap.String("seller_id", rating.SellerID), zap.Error(err))
	}
	return nil
}

// GetSellerRatings retrieves all ratings for the given seller.
func (s *RatingService) GetSellerRatings(sellerID string) ([]models.Rating, error) {
	return s.ratingRepo.GetBySeller(sellerID)
}

// UpdateSellerAverageRating recomputes the arithmetic mean over the full
// rating set of the seller (no weighting, no decay) and fans it out to
// every listing the seller owns in one atomic write. Recomputing from
// scratch rather than keeping a running sum avoids lost-update races
// between concurrent submissions. Zero ratings is a successful no-op.
func (s *RatingService) UpdateSellerAverageRating(sellerID string) error {
	ratings, err := s.ratingRepo.GetBySeller(sellerID)
	if err != nil {
		return fmt.Errorf("failed to load ratings for seller %s: %w", sellerID, err)
	}
	if len(ratings) == 0 {
		return nil
	}

	var sum int
	for _, r := range ratings {
		sum += r.Value
	}
	summary := models.SellerRatingSummary{
		Average: float64(sum) / float64(len(ratings)),
		Count:   len(ratings),
	}

	if err := s.listingRepo.UpdateSellerRating(sellerID, summary); err != nil {
		return fmt.Errorf("failed to apply rating summary for seller %s: %w", sellerID, err)
	}

	s.logger.Info("seller average rating updated",
		zap.String("seller_id", sellerID),
		zap.Float64("average", summary.Average),
		zap.Int("count", summary.Count))
	return nil
}
