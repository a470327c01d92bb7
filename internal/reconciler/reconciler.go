// Package reconciler implements the periodic job that syncs local order
// status with courier tracking state.
package reconciler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bookbazaar/internal/courier"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"

	"go.uber.org/zap"
)

// EventSink receives order lifecycle events for status changes the
// reconciler applies.
type EventSink interface {
	Publish(routingKey string, body []byte) error
}

// Reconciler polls the courier tracking API for every order with an
// outstanding shipment and advances order status accordingly. It is
// stateless between runs.
type Reconciler struct {
	orderRepo repositories.OrderRepository
	courier   courier.TrackingClient
	interval  time.Duration
	events    EventSink
	logger    *zap.Logger
}

// New creates a Reconciler polling at the given interval.
func New(orderRepo repositories.OrderRepository, trackingClient courier.TrackingClient, interval time.Duration, logger *zap.Logger) *Reconciler {
	if interval <= 0 {
		interval = 2 * time.Hour
	}
	return &Reconciler{
		orderRepo: orderRepo,
		courier:   trackingClient,
		interval:  interval,
		logger:    logger,
	}
}

// WithEvents makes the reconciler publish "order.status_changed" for every
// status it applies. Without a sink, changes are only logged.
func (r *Reconciler) WithEvents(sink EventSink) *Reconciler {
	r.events = sink
	return r
}

// Run executes RunOnce on the configured interval until ctx is cancelled.
// The first pass happens immediately. Runs are not protected against
// overlapping with themselves; a run is expected to finish well within
// the interval.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shipment reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs one reconciliation pass. It never returns an error
// past its own boundary: every outcome is logged and the pass always
// completes. Per-order failures are isolated so one bad order never
// blocks the rest of the batch.
func (r *Reconciler) RunOnce(ctx context.Context) {
	// One bearer token per run, shared across all lookups in the run.
	// The token's server-side validity far exceeds a run, and re-fetching
	// each run is cheap at this cadence.
	token, err := r.courier.Authenticate(ctx)
	if err != nil {
		r.logger.Error("courier authentication failed, skipping run", zap.Error(err))
		return
	}

	orders, err := r.orderRepo.GetReconcilable()
	if err != nil {
		r.logger.Error("failed to load reconcilable orders, skipping run", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		r.logger.Info("no orders with outstanding shipments")
		return
	}

	var wg sync.WaitGroup
	for i := range orders {
		order := orders[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.reconcileOrder(ctx, token, order)
		}()
	}
	wg.Wait()

	r.logger.Info("reconciliation pass complete", zap.Int("orders", len(orders)))
}

// reconcileOrder looks up one order's courier status and writes the new
// local status only when it differs from the stored one.
func (r *Reconciler) reconcileOrder(ctx context.Context, token string, order models.Order) {
	code, err := r.courier.ShipmentStatus(ctx, token, order.TrackingNumber)
	if err != nil {
		r.logger.Warn("courier lookup failed",
			zap.String("order_id", order.ID),
			zap.String("tracking_number", order.TrackingNumber),
			zap.Error(err))
		return
	}

	next := models.StatusForCourierCode(code, order.Status)
	if next == order.Status {
		return
	}

	if err := r.orderRepo.UpdateStatus(order.ID, next); err != nil {
		r.logger.Warn("failed to persist reconciled status",
			zap.String("order_id", order.ID),
			zap.String("status", string(next)),
			zap.Error(err))
		return
	}

	r.logger.Info("order status reconciled",
		zap.String("order_id", order.ID),
		zap.Int("courier_code", code),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	if r.events != nil {
		body, err := json.Marshal(map[string]interface{}{
			"order_id": order.ID,
			"from":     order.Status,
			"to":       next,
		})
		if err == nil {
			if err := r.events.Publish("order.status_changed", body); err != nil {
				r.logger.Warn("failed to publish reconciled status change",
					zap.String("order_id", order.ID), zap.Error(err))
			}
		}
	}
}
