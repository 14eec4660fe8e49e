package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// CheckoutSessionCreator is the outbound port to the payment processor.
type CheckoutSessionCreator interface {
	CreateCheckoutSession(ctx context.Context, items []models.CheckoutLineItem) (*models.CheckoutSession, error)
}

// OrderEventPublisher is the outbound port for the order event stream.
type OrderEventPublisher interface {
	PublishCheckoutStarted(ctx context.Context, event *models.CheckoutStartedEvent) error
	PublishOrderFulfilled(ctx context.Context, event *models.OrderFulfilledEvent) error
}

// CheckoutService bridges the cart and the payment processor: it
// projects a non-empty cart into processor line items, creates a
// checkout session and hands back the hosted payment page. Failure
// leaves the cart untouched; no purchase happened.
type CheckoutService struct {
	carts    *CartService
	sessions CheckoutSessionCreator
	events   OrderEventPublisher
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts *CartService, sessions CheckoutSessionCreator, events OrderEventPublisher) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		sessions: sessions,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// Checkout creates a checkout session for the cart's current contents.
// An empty cart is rejected before any external call is made.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string) (*models.CheckoutSession, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutSessionLatency.Observe(time.Since(start).Seconds())
	}()

	state, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("cart_not_found").Inc()
		return nil, err
	}

	if len(state.Items) == 0 {
		util.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	lineItems := BuildLineItems(state.Items)

	session, err := s.sessions.CreateCheckoutSession(ctx, lineItems)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("processor_error").Inc()
		s.logger.Error("Checkout session creation failed",
			zap.String("cart_id", cartID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	util.CheckoutSessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("cart_id", cartID),
		zap.String("session_id", session.SessionID),
		zap.Float64("total", state.Total),
		zap.Int("item_count", state.ItemCount))

	event := &models.CheckoutStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutStarted,
			Timestamp: time.Now(),
		},
		CartID:    cartID,
		SessionID: session.SessionID,
		Total:     state.Total,
		ItemCount: state.ItemCount,
		Items:     lineItems,
	}

	if err := s.events.PublishCheckoutStarted(ctx, event); err != nil {
		s.logger.Error("Failed to publish CheckoutStarted event", zap.Error(err))
	}

	return session, nil
}

// BuildLineItems projects cart line items into the processor request
// shape, quantizing unit prices to minor currency units rounded to the
// nearest integer.
func BuildLineItems(items []models.CartItem) []models.CheckoutLineItem {
	lineItems := make([]models.CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, models.CheckoutLineItem{
			Name:        item.Name,
			Description: item.Description,
			Image:       item.Image,
			UnitAmount:  int64(math.Round(item.Price * 100)),
			Quantity:    item.Quantity,
			ProductID:   item.ID,
		})
	}
	return lineItems
}
