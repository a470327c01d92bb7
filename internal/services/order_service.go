package services

import (
	"context"
	"encoding/json"
	"fmt"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// LabelGenerator renders and stores a shipping label for an order,
// returning its durable URL.
type LabelGenerator interface {
	GenerateLabel(ctx context.Context, order *models.Order) (string, error)
}

// OrderService handles business logic related to orders: creation with
// server-side stamping, purchase/sale queries, status transitions and
// shipping label attachment.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	listingRepo repositories.ListingRepository
	userRepo    repositories.UserRepository
	labels      LabelGenerator
	events      EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	listingRepo repositories.ListingRepository,
	userRepo repositories.UserRepository,
	labels LabelGenerator,
	events EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		labels:      labels,
		events:      events,
		logger:      logger,
	}
}

// CreateOrder creates a new order for the authenticated caller. The buyer
// id is always stamped from the caller identity, never trusted from the
// payload, and the listing snapshot (title, author, image, price, seller)
// is taken server-side from the listing record. TotalAmount is recomputed
// as BookPrice + ShippingCost regardless of the client value.
func (s *OrderService) CreateOrder(callerID string, orderRequest *models.Order) (*models.Order, error) {
	if callerID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	listing, err := s.listingRepo.GetByID(orderRequest.ListingID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", orderRequest.ListingID, err)
	}
	if listing.Status == models.ListingSold {
		return nil, fmt.Errorf("listing %s is already sold", listing.ID)
	}
	if listing.SellerID == callerID {
		return nil, fmt.Errorf("cannot order your own listing %s", listing.ID)
	}

	if orderRequest.BuyerAddress != nil && !orderRequest.BuyerAddress.IsValid() {
		return nil, fmt.Errorf("buyer address is incomplete")
	}

	// The seller's shipping origin is snapshotted from their profile so
	// later profile edits do not rewrite past orders.
	var sellerAddress *models.Address
	if seller, sellerErr := s.userRepo.GetByID(listing.SellerID); sellerErr == nil {
		sellerAddress = seller.Address
	} else {
		s.logger.Warn("could not load seller profile for address snapshot",
			zap.String("seller_id", listing.SellerID), zap.Error(sellerErr))
	}

	newOrder := &models.Order{
		ListingID:     listing.ID,
		BookTitle:     listing.Title,
		BookAuthor:    listing.Author,
		BookImageURL:  listing.ImageURL,
		BuyerID:       callerID, // stamped from caller identity, input ignored
		SellerID:      listing.SellerID,
		BookPrice:     listing.Price,
		ShippingCost:  orderRequest.ShippingCost,
		TotalAmount:   listing.Price + orderRequest.ShippingCost,
		BuyerAddress:  orderRequest.BuyerAddress,
		SellerAddress: sellerAddress,
		Status:        models.StatusPending,
	}

	// The book is a single physical copy: the listing leaves the feed the
	// moment it is ordered, so a second buyer cannot order it as well.
	listing.Status = models.ListingSold
	if err := s.listingRepo.Update(listing); err != nil {
		return nil, fmt.Errorf("failed to reserve listing %s: %w", listing.ID, err)
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		listing.Status = models.ListingAvailable
		if relistErr := s.listingRepo.Update(listing); relistErr != nil {
			s.logger.Error("failed to relist listing after order creation failure",
				zap.String("listing_id", listing.ID), zap.Error(relistErr))
		}
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":  newOrder.ID,
		"buyer_id":  newOrder.BuyerID,
		"seller_id": newOrder.SellerID,
		"status":    newOrder.Status,
		"total":     newOrder.TotalAmount,
	})

	return newOrder, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetPurchases retrieves the caller's orders as a buyer.
func (s *OrderService) GetPurchases(callerID string) ([]models.Order, error) {
	if callerID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.orderRepo.GetByBuyer(callerID)
}

// GetSales retrieves the caller's orders as a seller.
func (s *OrderService) GetSales(callerID string) ([]models.Order, error) {
	if callerID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.orderRepo.GetBySeller(callerID)
}

// UpdateOrderStatus moves an order to the given status after validating
// the transition against the order state machine and the caller's role:
// the buyer confirms payment and delivery, the seller moves the parcel,
// and either side may cancel. The store itself writes whatever it is
// told; the legality checks live here. Cancelling puts the book back on
// the feed.
func (s *OrderService) UpdateOrderStatus(callerID string, id string, status models.OrderStatus) error {
	if callerID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if !status.Valid() {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := callerMaySet(callerID, order, status); err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("illegal status transition %s -> %s for order %s", order.Status, status, id)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	if status == models.StatusCancelled {
		s.relistListing(order.ListingID)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"order_id": id,
		"from":     order.Status,
		"to":       status,
	})
	return nil
}

// callerMaySet enforces who may request which transition: PAID and
// DELIVERED belong to the buyer, LABEL_CREATED and SHIPPED to the
// seller, CANCELLED to either party.
func callerMaySet(callerID string, order *models.Order, status models.OrderStatus) error {
	switch status {
	case models.StatusPaid, models.StatusDelivered:
		if callerID != order.BuyerID {
			return fmt.Errorf("only the buyer can mark order %s as %s", order.ID, status)
		}
	case models.StatusLabelCreated, models.StatusShipped:
		if callerID != order.SellerID {
			return fmt.Errorf("only the seller can mark order %s as %s", order.ID, status)
		}
	case models.StatusCancelled:
		if callerID != order.BuyerID && callerID != order.SellerID {
			return fmt.Errorf("only the buyer or seller can cancel order %s", order.ID)
		}
	}
	return nil
}

// relistListing puts a listing back on the feed after its order was
// cancelled. The order cancellation already succeeded, so trouble here
// is logged rather than surfaced.
func (s *OrderService) relistListing(listingID string) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		s.logger.Warn("could not load listing for relisting after cancellation",
			zap.String("listing_id", listingID), zap.Error(err))
		return
	}
	listing.Status = models.ListingAvailable
	if err := s.listingRepo.Update(listing); err != nil {
		s.logger.Warn("failed to relist listing after cancellation",
			zap.String("listing_id", listingID), zap.Error(err))
	}
}

// SetTracking attaches the courier shipment reference to an order. Only
// the order's seller may do this.
func (s *OrderService) SetTracking(callerID string, id string, trackingNumber string, courierName string) error {
	if callerID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if trackingNumber == "" {
		return fmt.Errorf("tracking number is required")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.SellerID != callerID {
		return fmt.Errorf("only the seller can set tracking for order %s", id)
	}

	return s.orderRepo.SetTracking(id, trackingNumber, courierName)
}

// CreateShippingLabel generates the shipping label PDF for a paid order,
// persists its URL and advances the order to LABEL_CREATED. Re-running on
// an order already at LABEL_CREATED regenerates the label under the same
// key, which makes a retry after a partial failure safe.
func (s *OrderService) CreateShippingLabel(ctx context.Context, callerID string, id string) (string, error) {
	if callerID == "" {
		return "", apperrors.ErrNotAuthenticated
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if order.SellerID != callerID {
		return "", fmt.Errorf("only the seller can create a label for order %s", id)
	}
	if order.Status != models.StatusPaid && order.Status != models.StatusLabelCreated {
		return "", fmt.Errorf("order %s is %s; labels can only be created for paid orders", id, order.Status)
	}

	url, err := s.labels.GenerateLabel(ctx, order)
	if err != nil {
		return "", err
	}

	if err := s.orderRepo.SetShippingLabelURL(id, url); err != nil {
		return "", err
	}

	if order.Status == models.StatusPaid {
		if err := s.UpdateOrderStatus(callerID, id, models.StatusLabelCreated); err != nil {
			return "", err
		}
	}
	return url, nil
}

// publishEvent marshals and publishes an order lifecycle event. Broker
// trouble is logged, not surfaced: the order write already succeeded.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		s.logger.Debug("event publisher not configured, skipping publication",
			zap.String("event", routingKey))
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event", routingKey), zap.Error(err))
		return
	}
	s.logger.Info("published order event", zap.String("event", routingKey))
}
