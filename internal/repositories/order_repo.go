package repositories

import (
	"bookbazaar/internal/models"
)

// OrderRepository defines the interface for order data access. Status
// transition rules live in the service layer; the store only writes what
// it is told.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetByBuyer returns a user's purchases, GetBySeller their sales.
	// Both are independent indexed queries.
	GetByBuyer(buyerID string) ([]models.Order, error)
	GetBySeller(sellerID string) ([]models.Order, error)
	// UpdateStatus writes only the status field plus its milestone
	// timestamp (PaidAt/ShippedAt/DeliveredAt) and refreshes UpdatedAt.
	UpdateStatus(id string, status models.OrderStatus) error
	SetShippingLabelURL(id string, url string) error
	SetTracking(id string, trackingNumber string, courierName string) error
	MarkSellerRated(id string) error
	// GetReconcilable returns the orders the shipment reconciler acts on:
	// status LABEL_CREATED or SHIPPED with a courier tracking number.
	GetReconcilable() ([]models.Order, error)
	// Orders are never deleted; they are retained as transaction records.
}
