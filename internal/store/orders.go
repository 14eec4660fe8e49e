package store

import (
	"context"
	"database/sql"

	"storefront-service/internal/models"
)

// ArchiveOrder inserts an audit row for a fulfilled order. The row is
// observability history only; the Redis dedup record is what gates
// fulfillment. Conflicts on session_id are ignored so event replays
// stay harmless.
func (s *Store) ArchiveOrder(ctx context.Context, order *models.ArchivedOrder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archived_orders (session_id, order_number, total, item_count, notified, fulfilled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO NOTHING`,
		order.SessionID, order.OrderNumber, order.Total, order.ItemCount, order.Notified, order.FulfilledAt)
	return err
}

// GetArchivedOrderBySessionID retrieves an archived order by session ID.
// Returns nil without error when no row exists.
func (s *Store) GetArchivedOrderBySessionID(ctx context.Context, sessionID string) (*models.ArchivedOrder, error) {
	var order models.ArchivedOrder
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM archived_orders WHERE session_id = $1", sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetArchivedOrders retrieves the most recent archived orders
func (s *Store) GetArchivedOrders(ctx context.Context, limit int) ([]models.ArchivedOrder, error) {
	var orders []models.ArchivedOrder
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM archived_orders ORDER BY fulfilled_at DESC LIMIT $1", limit)
	return orders, err
}
