package repositories

import (
	"fmt"
	"sync"
	"time"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return &order, nil
}

// GetByBuyer returns all orders with the given buyer.
func (r *MockOrderRepository) GetByBuyer(buyerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// GetBySeller returns all orders with the given seller.
func (r *MockOrderRepository) GetBySeller(sellerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.SellerID == sellerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// UpdateStatus updates the status and milestone timestamp of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	now := time.Now()
	order.Status = status
	order.UpdatedAt = now
	switch status {
	case models.StatusPaid:
		order.PaidAt = &now
	case models.StatusShipped:
		order.ShippedAt = &now
	case models.StatusDelivered:
		order.DeliveredAt = &now
	}
	r.orders[id] = order
	return nil
}

// SetShippingLabelURL records the shipping label URL on an order.
func (r *MockOrderRepository) SetShippingLabelURL(id string, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	order.ShippingLabelURL = url
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetTracking records the courier shipment reference on an order.
func (r *MockOrderRepository) SetTracking(id string, trackingNumber string, courierName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	order.TrackingNumber = trackingNumber
	order.CourierName = courierName
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// MarkSellerRated flips the seller-rated flag on an order.
func (r *MockOrderRepository) MarkSellerRated(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	order.IsSellerRated = true
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// GetReconcilable returns orders with an outstanding shipment.
func (r *MockOrderRepository) GetReconcilable() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if (order.Status == models.StatusLabelCreated || order.Status == models.StatusShipped) &&
			order.TrackingNumber != "" {
			orders = append(orders, order)
		}
	}
	return orders, nil
}
