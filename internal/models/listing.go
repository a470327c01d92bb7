package models

import "gorm.io/gorm"

// Listing statuses. A listing leaves the feed once its book is sold.
const (
	ListingAvailable = "available"
	ListingSold      = "sold"
)

// Listing represents a used book offered for sale by a seller.
// SellerRating and SellerRatingCount are denormalized aggregates kept in
// sync across all of a seller's listings by the rating service.
type Listing struct {
	ID                string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID          string  `json:"seller_id" gorm:"index;type:varchar(36)"`
	Title             string  `json:"title" validate:"required,min=1,max=200"`
	Author            string  `json:"author" validate:"omitempty,max=200"`
	Description       string  `json:"description" validate:"omitempty,max=1000"`
	ImageURL          string  `json:"image_url" validate:"omitempty,url"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	Status            string  `json:"status"`
	SellerRating      float64 `json:"seller_rating"`
	SellerRatingCount int     `json:"seller_rating_count"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
