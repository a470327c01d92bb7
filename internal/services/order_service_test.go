package services_test

import (
	"context"
	"fmt"
	"testing"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// MockLabelGenerator is a mock implementation of services.LabelGenerator.
type MockLabelGenerator struct {
	mock.Mock
}

func (m *MockLabelGenerator) GenerateLabel(ctx context.Context, order *models.Order) (string, error) {
	args := m.Called(order)
	return args.String(0), args.Error(1)
}

func testAddress() *models.Address {
	return &models.Address{
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
	}
}

type orderServiceFixture struct {
	orders   *repositories.MockOrderRepository
	listings *repositories.MockListingRepository
	users    *repositories.MockUserRepository
	labels   *MockLabelGenerator
	events   *MockEventPublisher
	service  *services.OrderService
	listing  *models.Listing
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	f := &orderServiceFixture{
		orders:   repositories.NewMockOrderRepository(),
		listings: repositories.NewMockListingRepository(),
		users:    repositories.NewMockUserRepository(),
		labels:   new(MockLabelGenerator),
		events:   new(MockEventPublisher),
	}
	f.service = services.NewOrderService(f.orders, f.listings, f.users, f.labels, f.events, zap.NewNop())

	seller := &models.User{ID: "seller-1", Username: "seller", Email: "s@example.com", Address: testAddress()}
	assert.NoError(t, f.users.Create(seller))

	f.listing = &models.Listing{
		ID:       "listing-1",
		SellerID: "seller-1",
		Title:    "The God of Small Things",
		Author:   "Arundhati Roy",
		Price:    250,
	}
	assert.NoError(t, f.listings.Create(f.listing))
	return f
}

func TestCreateOrderStampsBuyerAndRecomputesTotal(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	created, err := f.service.CreateOrder("buyer-1", &models.Order{
		ListingID:    "listing-1",
		BuyerID:      "spoofed-buyer", // must be ignored
		TotalAmount:  9999,            // must be recomputed
		ShippingCost: 50,
		BuyerAddress: testAddress(),
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "buyer-1", created.BuyerID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, 250.0, created.BookPrice)
	assert.Equal(t, 300.0, created.TotalAmount)
	assert.Equal(t, "seller-1", created.SellerID)
	assert.Equal(t, "The God of Small Things", created.BookTitle)
	// Seller address snapshotted from the profile.
	assert.NotNil(t, created.SellerAddress)

	stored, err := f.orders.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "buyer-1", stored.BuyerID)
	f.events.AssertExpectations(t)
}

func TestCreateOrderMarksListingSold(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	_, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)

	// The single copy is off the feed.
	listing, err := f.listings.GetByID("listing-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ListingSold, listing.Status)

	// A second buyer cannot order the same book.
	_, err = f.service.CreateOrder("buyer-2", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already sold")
	f.events.AssertExpectations(t)
}

func TestCancelledOrderRelistsListing(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)

	assert.NoError(t, f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusCancelled))

	// The book is back on the feed and can be ordered again.
	listing, err := f.listings.GetByID("listing-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, listing.Status)

	_, err = f.service.CreateOrder("buyer-2", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	f := newOrderServiceFixture(t)

	_, err := f.service.CreateOrder("", &models.Order{ListingID: "listing-1"})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestCreateOrderRejectsOwnListing(t *testing.T) {
	f := newOrderServiceFixture(t)

	_, err := f.service.CreateOrder("seller-1", &models.Order{ListingID: "listing-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "own listing")
}

func TestCreateOrderUnknownListing(t *testing.T) {
	f := newOrderServiceFixture(t)

	_, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateOrderStatusValidatesTransition(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)

	// Legal: PENDING -> PAID.
	assert.NoError(t, f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusPaid))
	stored, _ := f.orders.GetByID(created.ID)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)

	// Illegal: PAID -> DELIVERED skips the label and shipping steps.
	err = f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusDelivered)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "illegal status transition")

	// Unknown status value.
	err = f.service.UpdateOrderStatus("buyer-1", created.ID, models.OrderStatus("PROCESSING"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}

func TestUpdateOrderStatusEnforcesParties(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)

	// PAID belongs to the buyer.
	err = f.service.UpdateOrderStatus("seller-1", created.ID, models.StatusPaid)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only the buyer")

	// SHIPPED belongs to the seller.
	err = f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusShipped)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only the seller")

	// A third party can do nothing, not even cancel.
	err = f.service.UpdateOrderStatus("stranger", created.ID, models.StatusCancelled)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only the buyer or seller")

	// No identity at all.
	err = f.service.UpdateOrderStatus("", created.ID, models.StatusPaid)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	// The order never moved.
	stored, _ := f.orders.GetByID(created.ID)
	assert.Equal(t, models.StatusPending, stored.Status)

	assert.NoError(t, f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusPaid))
}

func TestSetTrackingOnlySeller(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1"})
	assert.NoError(t, err)

	err = f.service.SetTracking("buyer-1", created.ID, "AWB-1", "IndiaPost")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only the seller")

	assert.NoError(t, f.service.SetTracking("seller-1", created.ID, "AWB-1", "IndiaPost"))
	stored, _ := f.orders.GetByID(created.ID)
	assert.Equal(t, "AWB-1", stored.TrackingNumber)
	assert.Equal(t, "IndiaPost", stored.CourierName)
}

func TestCreateShippingLabel(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)

	// Labels require a paid order.
	_, err = f.service.CreateShippingLabel(context.Background(), "seller-1", created.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "paid orders")

	assert.NoError(t, f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusPaid))

	// Only the seller may generate the label.
	_, err = f.service.CreateShippingLabel(context.Background(), "buyer-1", created.ID)
	assert.Error(t, err)

	f.labels.On("GenerateLabel", mock.Anything).
		Return("https://cdn.example.com/shipping_labels/"+created.ID+".pdf", nil).Once()

	url, err := f.service.CreateShippingLabel(context.Background(), "seller-1", created.ID)
	assert.NoError(t, err)
	assert.Contains(t, url, created.ID)

	stored, _ := f.orders.GetByID(created.ID)
	assert.Equal(t, models.StatusLabelCreated, stored.Status)
	assert.Equal(t, url, stored.ShippingLabelURL)
	f.labels.AssertExpectations(t)
}

func TestCreateShippingLabelPropagatesGeneratorFailure(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateOrder("buyer-1", &models.Order{ListingID: "listing-1", BuyerAddress: testAddress()})
	assert.NoError(t, err)
	assert.NoError(t, f.service.UpdateOrderStatus("buyer-1", created.ID, models.StatusPaid))

	f.labels.On("GenerateLabel", mock.Anything).
		Return("", fmt.Errorf("order %s has no seller address: %w", created.ID, apperrors.ErrMissingAddress)).Once()

	_, err = f.service.CreateShippingLabel(context.Background(), "seller-1", created.ID)
	assert.ErrorIs(t, err, apperrors.ErrMissingAddress)

	// No partial state: the order keeps its status and has no label URL.
	stored, _ := f.orders.GetByID(created.ID)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.Empty(t, stored.ShippingLabelURL)
}
