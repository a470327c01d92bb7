package repositories

import (
	"errors"
	"fmt"
	"time"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order, assigning an id and creation timestamps.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", apperrors.Remote(err))
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, apperrors.Remote(err))
	}
	return &order, nil
}

// GetByBuyer retrieves all orders where the given user is the buyer.
func (r *GORMOrderRepository) GetByBuyer(buyerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for buyer %s: %w", buyerID, apperrors.Remote(err))
	}
	return orders, nil
}

// GetBySeller retrieves all orders where the given user is the seller.
func (r *GORMOrderRepository) GetBySeller(sellerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for seller %s: %w", sellerID, apperrors.Remote(err))
	}
	return orders, nil
}

// UpdateStatus updates the status of an order along with its milestone
// timestamp. It does not validate the transition; that belongs to the
// service layer.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case models.StatusPaid:
		updates["paid_at"] = now
	case models.StatusShipped:
		updates["shipped_at"] = now
	case models.StatusDelivered:
		updates["delivered_at"] = now
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, apperrors.Remote(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// SetShippingLabelURL records the uploaded shipping label URL on an order.
func (r *GORMOrderRepository) SetShippingLabelURL(id string, url string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"shipping_label_url": url,
		"updated_at":         time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set shipping label URL for order %s: %w", id, apperrors.Remote(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// SetTracking records the courier shipment reference on an order.
func (r *GORMOrderRepository) SetTracking(id string, trackingNumber string, courierName string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"tracking_number": trackingNumber,
		"courier_name":    courierName,
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set tracking for order %s: %w", id, apperrors.Remote(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// MarkSellerRated flips the is_seller_rated flag. It flips once; the
// once-per-transaction guard is enforced by the rating service.
func (r *GORMOrderRepository) MarkSellerRated(id string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_seller_rated": true,
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to mark order %s as rated: %w", id, apperrors.Remote(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// GetReconcilable retrieves all orders with an outstanding shipment: status
// LABEL_CREATED or SHIPPED and a non-empty tracking number.
func (r *GORMOrderRepository) GetReconcilable() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("status IN ?", []models.OrderStatus{models.StatusLabelCreated, models.StatusShipped}).
		Where("tracking_number <> ''").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reconcilable orders: %w", apperrors.Remote(err))
	}
	return orders, nil
}
