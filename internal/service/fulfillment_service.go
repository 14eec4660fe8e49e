package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidSession = errors.New("missing or malformed session identifier")

// sessionIDPattern matches processor session identifiers. Anything else
// on the return URL is treated as malformed and triggers no fulfillment.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,255}$`)

// FulfillmentRecord is the outbound port to the durable dedup store: the
// set of session identifiers already fulfilled, plus a minimal order
// snapshot per entry. The fulfillment service is its only writer.
type FulfillmentRecord interface {
	// Lookup returns nil without error when the session is unseen.
	Lookup(ctx context.Context, sessionID string) (*models.FulfilledSession, error)
	// Commit records a fulfillment. First writer wins: false means
	// another invocation already committed this session.
	Commit(ctx context.Context, record *models.FulfilledSession) (bool, error)
	// Trim drops the oldest entries, keeping the most recent keep.
	Trim(ctx context.Context, keep int) error
}

// NotificationSink is the outbound port to the downstream order
// notification collaborator. Fire-and-forget: the outcome only feeds
// the notified flag shown to the user, never a retry.
type NotificationSink interface {
	Notify(ctx context.Context, order *models.OrderNotification) error
}

// FulfillmentService decides, exactly once per session identifier,
// whether to clear the cart and notify downstream of a completed sale.
// The trigger is only "the browser came back with a session_id", which
// can fire any number of times: refresh, back button, double mount,
// bookmark. The dedup record is what makes the side effects at-most-once.
type FulfillmentService struct {
	carts         *CartService
	record        FulfillmentRecord
	sink          NotificationSink
	events        OrderEventPublisher
	logger        *zap.Logger
	keep          int
	customerEmail string

	// Serializes fulfillment so overlapping invocations cannot both
	// observe an unseen session before either commits.
	mu sync.Mutex
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(
	carts *CartService,
	record FulfillmentRecord,
	sink NotificationSink,
	events OrderEventPublisher,
	keep int,
	customerEmail string,
) *FulfillmentService {
	return &FulfillmentService{
		carts:         carts,
		record:        record,
		sink:          sink,
		events:        events,
		logger:        util.GetLogger(),
		keep:          keep,
		customerEmail: customerEmail,
	}
}

// Fulfill processes a return from the payment processor. The sequence
// for an unseen session is fixed: snapshot the cart, attempt the
// notification, clear the cart, then commit the dedup record. The
// commit is the point of no return; a failed notification does not
// block it because the processor's charge already succeeded.
func (s *FulfillmentService) Fulfill(ctx context.Context, cartID, sessionID string) (*models.OrderSummary, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.Fulfill")
	defer span.End()

	if !sessionIDPattern.MatchString(sessionID) {
		util.FulfillmentRejectedTotal.WithLabelValues("invalid_session").Inc()
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.record.Lookup(ctx, sessionID)
	if err != nil {
		// Without the dedup check the at-most-once guarantee is gone,
		// so take no action at all.
		util.FulfillmentRejectedTotal.WithLabelValues("record_unavailable").Inc()
		return nil, err
	}

	if existing != nil {
		util.FulfillmentDuplicatesTotal.Inc()
		s.logger.Info("Session already fulfilled",
			zap.String("session_id", sessionID))
		return s.replaySummary(existing), nil
	}

	snapshot, err := s.carts.Snapshot(ctx, cartID)
	if err != nil {
		util.FulfillmentRejectedTotal.WithLabelValues("cart_not_found").Inc()
		return nil, err
	}

	now := time.Now()
	orderNumber := OrderNumber(sessionID)

	notification := &models.OrderNotification{
		OrderNumber:   orderNumber,
		CustomerEmail: s.customerEmail,
		Total:         snapshot.Total,
		Items:         notificationItems(snapshot.Items),
		SessionID:     sessionID,
	}

	notified := true
	if err := s.sink.Notify(ctx, notification); err != nil {
		notified = false
		util.NotificationsFailedTotal.Inc()
		s.logger.Warn("Order notification failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else {
		util.NotificationsSentTotal.Inc()
	}

	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		s.logger.Error("Failed to clear cart after payment",
			zap.String("cart_id", cartID),
			zap.Error(err))
	}

	record := &models.FulfilledSession{
		SessionID:   sessionID,
		OrderNumber: orderNumber,
		Total:       snapshot.Total,
		ItemCount:   snapshot.ItemCount,
		FulfilledAt: now,
	}

	committed, err := s.record.Commit(ctx, record)
	if err != nil {
		s.logger.Error("Failed to commit fulfillment record",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else if !committed {
		// Another replica won the commit. Cart clearing is idempotent
		// and the duplicate notification is a display concern only.
		util.FulfillmentDuplicatesTotal.Inc()
		s.logger.Warn("Fulfillment record already committed elsewhere",
			zap.String("session_id", sessionID))
	}

	if err := s.record.Trim(ctx, s.keep); err != nil {
		s.logger.Warn("Failed to trim fulfillment records", zap.Error(err))
	}

	util.FulfillmentsTotal.Inc()
	s.logger.Info("Order fulfilled",
		zap.String("session_id", sessionID),
		zap.String("order_number", orderNumber),
		zap.Float64("total", snapshot.Total),
		zap.Int("item_count", snapshot.ItemCount),
		zap.Bool("notified", notified))

	event := &models.OrderFulfilledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderFulfilled,
			Timestamp: now,
		},
		SessionID:   sessionID,
		OrderNumber: orderNumber,
		Total:       snapshot.Total,
		ItemCount:   snapshot.ItemCount,
		Notified:    notified,
		Items:       notificationItems(snapshot.Items),
		FulfilledAt: now,
	}
	if err := s.events.PublishOrderFulfilled(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderFulfilled event", zap.Error(err))
	}

	return &models.OrderSummary{
		OrderNumber: orderNumber,
		Date:        now,
		Total:       snapshot.Total,
		ItemCount:   snapshot.ItemCount,
		Notified:    notified,
	}, nil
}

// replaySummary reconstructs a summary for an already-fulfilled session
// from its stored snapshot. Records without a snapshot degrade to a
// zeroed summary; the cart contents are long gone.
func (s *FulfillmentService) replaySummary(record *models.FulfilledSession) *models.OrderSummary {
	orderNumber := record.OrderNumber
	if orderNumber == "" {
		orderNumber = OrderNumber(record.SessionID)
	}

	date := record.FulfilledAt
	if date.IsZero() {
		date = time.Now()
	}

	return &models.OrderSummary{
		OrderNumber: orderNumber,
		Date:        date,
		Total:       record.Total,
		ItemCount:   record.ItemCount,
		Notified:    true,
		Synthesized: true,
	}
}

// OrderNumber derives a display order number from a session identifier.
func OrderNumber(sessionID string) string {
	suffix := sessionID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "ORD-" + suffix
}

func notificationItems(items []models.CartItem) []models.NotificationItem {
	out := make([]models.NotificationItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.NotificationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return out
}
