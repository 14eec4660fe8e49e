package models

import "time"

// Event types
const (
	EventTypeCheckoutStarted = "CHECKOUT_STARTED"
	EventTypeOrderFulfilled  = "ORDER_FULFILLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutStartedEvent published when a checkout session is created
type CheckoutStartedEvent struct {
	BaseEvent
	CartID    string             `json:"cart_id"`
	SessionID string             `json:"session_id"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"item_count"`
	Items     []CheckoutLineItem `json:"items"`
}

// OrderFulfilledEvent published after a fulfillment commits
type OrderFulfilledEvent struct {
	BaseEvent
	SessionID   string             `json:"session_id"`
	OrderNumber string             `json:"order_number"`
	Total       float64            `json:"total"`
	ItemCount   int                `json:"item_count"`
	Notified    bool               `json:"notified"`
	Items       []NotificationItem `json:"items"`
	FulfilledAt time.Time          `json:"fulfilled_at"`
}
