package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishCheckoutStarted publishes CheckoutStarted event
func (ep *EventPublisher) PublishCheckoutStarted(ctx context.Context, event *models.CheckoutStartedEvent) error {
	key := fmt.Sprintf("session-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderFulfilled publishes OrderFulfilled event
func (ep *EventPublisher) PublishOrderFulfilled(ctx context.Context, event *models.OrderFulfilledEvent) error {
	key := fmt.Sprintf("session-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onCheckoutStarted func(context.Context, *models.CheckoutStartedEvent) error
	onOrderFulfilled  func(context.Context, *models.OrderFulfilledEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnCheckoutStarted registers a handler for CheckoutStarted events
func (eh *EventHandler) OnCheckoutStarted(handler func(context.Context, *models.CheckoutStartedEvent) error) {
	eh.onCheckoutStarted = handler
}

// OnOrderFulfilled registers a handler for OrderFulfilled events
func (eh *EventHandler) OnOrderFulfilled(handler func(context.Context, *models.OrderFulfilledEvent) error) {
	eh.onOrderFulfilled = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeCheckoutStarted:
		if eh.onCheckoutStarted != nil {
			var event models.CheckoutStartedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutStarted event: %w", err)
			}
			return eh.onCheckoutStarted(ctx, &event)
		}

	case models.EventTypeOrderFulfilled:
		if eh.onOrderFulfilled != nil {
			var event models.OrderFulfilledEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderFulfilled event: %w", err)
			}
			return eh.onOrderFulfilled(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
