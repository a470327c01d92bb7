package handlers

import (
	"fmt"

	"bookbazaar/internal/models"
	"bookbazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for book listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the listing feed routes. Browsing needs
// no authentication; call this before mounting the auth middleware.
func (h *ListingHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/listings", h.HandleGetListings)
	router.Get("/listings/:id", h.HandleGetListingByID)
}

// RegisterProtectedRoutes registers the listing routes that require
// authentication.
func (h *ListingHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/listings", h.HandleCreateListing)
}

// HandleGetListings retrieves the listing feed.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	// Optional seller filter for a seller's shelf view.
	if sellerID := c.Query("seller_id"); sellerID != "" {
		listings, err := h.service.GetSellerListings(sellerID)
		if err != nil {
			return errorJSON(c, "Could not retrieve listings", err)
		}
		return c.JSON(listings)
	}

	listings, err := h.service.GetAllListings()
	if err != nil {
		return errorJSON(c, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

// HandleGetListingByID retrieves a single listing by its ID.
func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	listing, err := h.service.GetListingByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, "Could not retrieve listing", err)
	}
	return c.JSON(listing)
}

// HandleCreateListing creates a new listing owned by the caller.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var listing models.Listing
	if err := c.BodyParser(&listing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(listing); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateListing(callerID(c), &listing); err != nil {
		return errorJSON(c, "Could not create listing", err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}
