package handlers

import (
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RatingHandler handles HTTP requests for seller ratings.
type RatingHandler struct {
	service  *services.RatingService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service *services.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the rating routes. Submission requires
// authentication; reading a seller's ratings does not reveal anything
// private but lives behind the same group for simplicity.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/ratings", h.HandleSubmitRating)
	router.Get("/sellers/:id/ratings", h.HandleGetSellerRatings)
}

// HandleSubmitRating records a buyer's rating of a seller.
func (h *RatingHandler) HandleSubmitRating(c *fiber.Ctx) error {
	var rating models.Rating
	if err := c.BodyParser(&rating); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.SubmitRating(callerID(c), &rating); err != nil {
		h.logger.Warn("rating submission failed", zap.Error(err))
		return errorJSON(c, "Could not submit rating", err)
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleGetSellerRatings retrieves all ratings for a seller.
func (h *RatingHandler) HandleGetSellerRatings(c *fiber.Ctx) error {
	ratings, err := h.service.GetSellerRatings(c.Params("id"))
	if err != nil {
		return errorJSON(c, "Could not retrieve ratings", err)
	}
	return c.JSON(ratings)
}
