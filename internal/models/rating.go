package models

import "time"

// Rating is a buyer's rating of a seller for one completed transaction.
// Ratings are append-only: created once, never mutated, read in aggregate
// by the rating service.
type Rating struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SellerID      string    `json:"seller_id" gorm:"index;type:varchar(36)" validate:"required"`
	BuyerID       string    `json:"buyer_id" gorm:"type:varchar(36)"`
	Value         int       `json:"value" validate:"required,min=1,max=5"`
	Comment       string    `json:"comment" validate:"omitempty,max=500"`
	TransactionID string    `json:"transaction_id" validate:"required"`
	CreatedAt     time.Time `json:"created_at"`
}

// SellerRatingSummary is the aggregate the rating service fans out to a
// seller's listings.
type SellerRatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
