package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Image       string    `db:"image" json:"image"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	InStock     bool      `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CartItem represents one product line in a cart. At most one line
// exists per product id; adding the same product again increments Quantity.
type CartItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CartState holds cart line items plus derived totals. Total and
// ItemCount are recomputed after every mutation, never set directly.
type CartState struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// CheckoutLineItem is the per-line projection sent to the payment
// processor. UnitAmount is in minor currency units (cents).
type CheckoutLineItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	UnitAmount  int64  `json:"unit_amount"`
	Quantity    int    `json:"quantity"`
	ProductID   int64  `json:"product_id"`
}

// CheckoutSession is the processor's handle for one checkout attempt.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// OrderSummary is the display-only result of a fulfillment. Synthesized
// indicates a duplicate observation where the summary was reconstructed
// from the dedup record rather than a live cart snapshot.
type OrderSummary struct {
	OrderNumber string    `json:"order_number"`
	Date        time.Time `json:"date"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
	Notified    bool      `json:"notified"`
	Synthesized bool      `json:"synthesized"`
}

// FulfilledSession is one entry in the durable dedup record: the session
// identifier plus a minimal order snapshot kept so a revisit can report
// real totals instead of zeros.
type FulfilledSession struct {
	SessionID   string    `json:"session_id"`
	OrderNumber string    `json:"order_number"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
	FulfilledAt time.Time `json:"fulfilled_at"`
}

// OrderNotification is the payload sent to the notification sink.
type OrderNotification struct {
	OrderNumber   string             `json:"orderNumber"`
	CustomerEmail string             `json:"customerEmail"`
	Total         float64            `json:"total"`
	Items         []NotificationItem `json:"items"`
	SessionID     string             `json:"sessionId"`
}

// NotificationItem is one line in a notification payload.
type NotificationItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ArchivedOrder is the audit row written by the archive worker after a
// fulfillment event. It never gates fulfillment decisions.
type ArchivedOrder struct {
	ID          int64     `db:"id" json:"id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	OrderNumber string    `db:"order_number" json:"order_number"`
	Total       float64   `db:"total" json:"total"`
	ItemCount   int       `db:"item_count" json:"item_count"`
	Notified    bool      `db:"notified" json:"notified"`
	FulfilledAt time.Time `db:"fulfilled_at" json:"fulfilled_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
