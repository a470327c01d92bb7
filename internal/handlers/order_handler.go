package handlers

import (
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All order
// routes require authentication. The fixed paths are registered before
// the parameterised ones so "purchases" is not captured as an :id.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/purchases", h.HandleGetPurchases)
	orderRoutes.Get("/sales", h.HandleGetSales)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/tracking", h.HandleSetTracking)
	orderRoutes.Post("/:id/label", h.HandleCreateShippingLabel)
}

// HandleCreateOrder creates a new order for the authenticated buyer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var orderRequest models.Order
	if err := c.BodyParser(&orderRequest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if orderRequest.ListingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A listing ID is required for an order.",
		})
	}

	createdOrder, err := h.service.CreateOrder(callerID(c), &orderRequest)
	if err != nil {
		h.logger.Warn("order creation failed", zap.Error(err))
		return errorJSON(c, "Could not create order", err)
	}

	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		return errorJSON(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleGetPurchases retrieves the caller's orders as a buyer.
func (h *OrderHandler) HandleGetPurchases(c *fiber.Ctx) error {
	orders, err := h.service.GetPurchases(callerID(c))
	if err != nil {
		return errorJSON(c, "Could not retrieve purchases", err)
	}
	return c.JSON(orders)
}

// HandleGetSales retrieves the caller's orders as a seller.
func (h *OrderHandler) HandleGetSales(c *fiber.Ctx) error {
	orders, err := h.service.GetSales(callerID(c))
	if err != nil {
		return errorJSON(c, "Could not retrieve sales", err)
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus moves an order through its state machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.service.UpdateOrderStatus(callerID(c), orderID, updateData.Status); err != nil {
		h.logger.Warn("order status update failed",
			zap.String("order_id", orderID), zap.Error(err))
		return errorJSON(c, "Could not update order status", err)
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"id":      orderID,
		"status":  updateData.Status,
	})
}

// HandleSetTracking attaches the courier shipment reference to an order.
func (h *OrderHandler) HandleSetTracking(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var trackingData struct {
		TrackingNumber string `json:"tracking_number"`
		CourierName    string `json:"courier_name"`
	}
	if err := c.BodyParser(&trackingData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for tracking update",
			"error":   err.Error(),
		})
	}

	if err := h.service.SetTracking(callerID(c), orderID, trackingData.TrackingNumber, trackingData.CourierName); err != nil {
		return errorJSON(c, "Could not set tracking", err)
	}

	return c.JSON(fiber.Map{
		"message":         "Tracking updated",
		"id":              orderID,
		"tracking_number": trackingData.TrackingNumber,
	})
}

// HandleCreateShippingLabel generates the shipping label PDF for an
// order and returns its durable URL.
func (h *OrderHandler) HandleCreateShippingLabel(c *fiber.Ctx) error {
	orderID := c.Params("id")

	url, err := h.service.CreateShippingLabel(c.Context(), callerID(c), orderID)
	if err != nil {
		h.logger.Warn("shipping label creation failed",
			zap.String("order_id", orderID), zap.Error(err))
		return errorJSON(c, "Could not create shipping label", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":            "Shipping label created",
		"id":                 orderID,
		"shipping_label_url": url,
	})
}
