package worker

import (
	"context"
	"fmt"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// OrderArchiveWorker consumes the order event stream and writes audit
// rows for fulfilled orders. The archive trails the Redis dedup record
// and never gates fulfillment decisions.
type OrderArchiveWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewOrderArchiveWorker creates a new order archive worker
func NewOrderArchiveWorker(consumer *broker.Consumer, db *store.Store) *OrderArchiveWorker {
	w := &OrderArchiveWorker{
		consumer: consumer,
		store:    db,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderFulfilled(w.handleOrderFulfilled)
	eventHandler.OnCheckoutStarted(w.handleCheckoutStarted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *OrderArchiveWorker) Start(ctx context.Context) error {
	log.Println("Starting order archive worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderArchiveWorker) Stop() error {
	log.Println("Stopping order archive worker...")
	return w.consumer.Close()
}

func (w *OrderArchiveWorker) handleOrderFulfilled(ctx context.Context, event *models.OrderFulfilledEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order := &models.ArchivedOrder{
		SessionID:   event.SessionID,
		OrderNumber: event.OrderNumber,
		Total:       event.Total,
		ItemCount:   event.ItemCount,
		Notified:    event.Notified,
		FulfilledAt: event.FulfilledAt,
	}

	if err := w.store.ArchiveOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}

	util.OrdersArchivedTotal.Inc()
	w.logger.Info("Order archived",
		zap.String("session_id", event.SessionID),
		zap.String("order_number", event.OrderNumber),
		zap.Float64("total", event.Total))

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

func (w *OrderArchiveWorker) handleCheckoutStarted(ctx context.Context, event *models.CheckoutStartedEvent) error {
	// Checkout starts are log-only; most never convert to a payment.
	w.logger.Info("Checkout started",
		zap.String("cart_id", event.CartID),
		zap.String("session_id", event.SessionID),
		zap.Float64("total", event.Total),
		zap.Int("item_count", event.ItemCount))
	return nil
}
