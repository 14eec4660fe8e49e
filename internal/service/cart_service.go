package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
)

// ProductCatalog is the outbound port for product lookups. Cart adds
// always price items from the catalog, never from client input.
type ProductCatalog interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
}

var _ ProductCatalog = (*store.Store)(nil)

// CartService is the single source of truth for cart contents. Carts
// are held in memory keyed by cart id; all mutations go through the
// pure transitions in the cart package and are serialized by a single
// lock so the derived-total invariants hold under concurrent requests.
type CartService struct {
	catalog ProductCatalog
	logger  *zap.Logger

	mu    sync.RWMutex
	carts map[string]models.CartState
}

// NewCartService creates a new cart service
func NewCartService(catalog ProductCatalog) *CartService {
	return &CartService{
		catalog: catalog,
		logger:  util.GetLogger(),
		carts:   make(map[string]models.CartState),
	}
}

// CreateCart creates a new empty cart and returns its id.
func (s *CartService) CreateCart(ctx context.Context) string {
	cartID := uuid.New().String()

	s.mu.Lock()
	s.carts[cartID] = cart.Clear(models.CartState{})
	s.mu.Unlock()

	s.logger.Info("Cart created", zap.String("cart_id", cartID))
	return cartID
}

// GetCart returns a snapshot of the cart state.
func (s *CartService) GetCart(ctx context.Context, cartID string) (models.CartState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.carts[cartID]
	if !ok {
		return models.CartState{}, ErrCartNotFound
	}
	return cart.Snapshot(state), nil
}

// AddItem adds one unit of a product to the cart. The product must
// exist in the catalog and be in stock.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID int64) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return models.CartState{}, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if !product.InStock {
		return models.CartState{}, fmt.Errorf("%w: %d", ErrOutOfStock, productID)
	}

	return s.apply(cartID, "add_to_cart", func(state models.CartState) models.CartState {
		return cart.AddItem(state, *product)
	})
}

// UpdateQuantity sets a line item's quantity to an absolute value.
// Zero or below removes the line; unknown product ids are a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) (models.CartState, error) {
	return s.apply(cartID, "update_quantity", func(state models.CartState) models.CartState {
		return cart.UpdateQuantity(state, productID, quantity)
	})
}

// RemoveItem removes a line item from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64) (models.CartState, error) {
	return s.apply(cartID, "remove_from_cart", func(state models.CartState) models.CartState {
		return cart.RemoveItem(state, productID)
	})
}

// Clear resets the cart to the empty state.
func (s *CartService) Clear(ctx context.Context, cartID string) (models.CartState, error) {
	return s.apply(cartID, "clear_cart", cart.Clear)
}

// Snapshot returns a deep copy of the cart safe to hold across a Clear.
func (s *CartService) Snapshot(ctx context.Context, cartID string) (models.CartState, error) {
	return s.GetCart(ctx, cartID)
}

func (s *CartService) apply(cartID, action string, transition func(models.CartState) models.CartState) (models.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[cartID]
	if !ok {
		return models.CartState{}, ErrCartNotFound
	}

	next := transition(state)
	if err := cart.CheckInvariants(next); err != nil {
		// A transition defect, not bad input. Keep the previous state.
		s.logger.Error("Cart invariant violation",
			zap.String("cart_id", cartID),
			zap.String("action", action),
			zap.Error(err))
		return models.CartState{}, fmt.Errorf("cart invariant violation: %w", err)
	}

	s.carts[cartID] = next
	util.CartActionsTotal.WithLabelValues(action).Inc()
	return cart.Snapshot(next), nil
}
