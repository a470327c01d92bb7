package models

import "gorm.io/gorm"

// User represents a marketplace account. The same account can act as
// buyer and seller. Address is the seller's default shipping origin,
// snapshotted onto orders of this user's listings.
type User struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string   `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string   `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	DisplayName string   `json:"display_name" validate:"omitempty,max=100"`
	Password    string   `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Address     *Address `json:"address" gorm:"serializer:json"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
