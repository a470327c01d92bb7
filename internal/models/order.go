package models

import "time"

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// StatusPending is the initial state of every order.
	StatusPending OrderStatus = "PENDING"
	// StatusPaid indicates payment has been confirmed by the buyer.
	StatusPaid OrderStatus = "PAID"
	// StatusLabelCreated indicates the shipping label PDF has been generated.
	StatusLabelCreated OrderStatus = "LABEL_CREATED"
	// StatusShipped indicates the courier has picked up the parcel.
	StatusShipped OrderStatus = "SHIPPED"
	// StatusDelivered indicates the courier reported delivery. Terminal.
	StatusDelivered OrderStatus = "DELIVERED"
	// StatusCancelled indicates the order was cancelled. Terminal.
	StatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions encodes the legal state machine:
// PENDING → PAID → LABEL_CREATED → SHIPPED → DELIVERED, with every
// non-terminal state able to move to CANCELLED.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:      {StatusPaid, StatusCancelled},
	StatusPaid:         {StatusLabelCreated, StatusCancelled},
	StatusLabelCreated: {StatusShipped, StatusCancelled},
	StatusShipped:      {StatusDelivered, StatusCancelled},
	StatusDelivered:    {},
	StatusCancelled:    {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no transition out of s is defined.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. Terminal states (DELIVERED, CANCELLED) never regress.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// statusRank orders the happy-path lifecycle so courier updates can only
// move an order forwards. CANCELLED sits outside the ranking.
var statusRank = map[OrderStatus]int{
	StatusPending:      0,
	StatusPaid:         1,
	StatusLabelCreated: 2,
	StatusShipped:      3,
	StatusDelivered:    4,
}

// StatusForCourierCode maps a courier shipment_status_id onto the local
// status an order at current should advance to. Code 6 means delivered,
// 7 and 8 mean cancelled, anything from 4 upwards means in transit;
// lower codes keep the current status. The result is monotonic: a
// terminal order never changes, and the happy-path status never moves
// backwards on a later lower code.
func StatusForCourierCode(code int, current OrderStatus) OrderStatus {
	if current.Terminal() {
		return current
	}
	switch {
	case code == 6:
		return StatusDelivered
	case code == 7 || code == 8:
		return StatusCancelled
	case code >= 4:
		if statusRank[StatusShipped] > statusRank[current] {
			return StatusShipped
		}
	}
	return current
}

// Order represents a single-book purchase transaction between a buyer and
// a seller. Orders are never deleted; they are retained indefinitely as
// transaction records.
type Order struct {
	ID string `json:"id" gorm:"primaryKey;type:varchar(36)"`

	// Listing snapshot, copied from the listing at creation time so the
	// order stays readable after the listing changes.
	ListingID    string `json:"listing_id" validate:"required"`
	BookTitle    string `json:"book_title"`
	BookAuthor   string `json:"book_author"`
	BookImageURL string `json:"book_image_url"`

	BuyerID  string `json:"buyer_id" gorm:"index;type:varchar(36)"`
	SellerID string `json:"seller_id" gorm:"index;type:varchar(36)"`

	BookPrice    float64 `json:"book_price"`
	ShippingCost float64 `json:"shipping_cost" validate:"gte=0"`
	TotalAmount  float64 `json:"total_amount"`

	BuyerAddress  *Address `json:"buyer_address" gorm:"serializer:json"`
	SellerAddress *Address `json:"seller_address" gorm:"serializer:json"`

	TrackingNumber   string `json:"tracking_number"`
	CourierName      string `json:"courier_name"`
	ShippingLabelURL string `json:"shipping_label_url"`

	Status        OrderStatus `json:"status" gorm:"index;type:varchar(20)"`
	IsSellerRated bool        `json:"is_seller_rated"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}
