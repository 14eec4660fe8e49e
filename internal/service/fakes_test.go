package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"storefront-service/internal/models"
)

// In-memory collaborators for service tests.

type fakeCatalog struct {
	products map[int64]models.Product
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	m := make(map[int64]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (c *fakeCatalog) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	return &p, nil
}

func (c *fakeCatalog) GetProducts(context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memRecord struct {
	entries   map[string]*models.FulfilledSession
	order     []string
	lookupErr error
}

func newMemRecord() *memRecord {
	return &memRecord{entries: make(map[string]*models.FulfilledSession)}
}

func (r *memRecord) Lookup(_ context.Context, sessionID string) (*models.FulfilledSession, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	rec, ok := r.entries[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (r *memRecord) Commit(_ context.Context, record *models.FulfilledSession) (bool, error) {
	if _, ok := r.entries[record.SessionID]; ok {
		return false, nil
	}
	copied := *record
	r.entries[record.SessionID] = &copied
	r.order = append(r.order, record.SessionID)
	return true, nil
}

func (r *memRecord) Trim(_ context.Context, keep int) error {
	if keep <= 0 || len(r.order) <= keep {
		return nil
	}
	drop := r.order[:len(r.order)-keep]
	for _, sessionID := range drop {
		delete(r.entries, sessionID)
	}
	r.order = r.order[len(r.order)-keep:]
	return nil
}

type fakeSink struct {
	calls []*models.OrderNotification
	err   error
}

func (s *fakeSink) Notify(_ context.Context, order *models.OrderNotification) error {
	s.calls = append(s.calls, order)
	return s.err
}

type fakePublisher struct {
	checkouts    []*models.CheckoutStartedEvent
	fulfillments []*models.OrderFulfilledEvent
}

func (p *fakePublisher) PublishCheckoutStarted(_ context.Context, event *models.CheckoutStartedEvent) error {
	p.checkouts = append(p.checkouts, event)
	return nil
}

func (p *fakePublisher) PublishOrderFulfilled(_ context.Context, event *models.OrderFulfilledEvent) error {
	p.fulfillments = append(p.fulfillments, event)
	return nil
}

type fakeSessionCreator struct {
	calls    int
	session  *models.CheckoutSession
	err      error
	gotItems []models.CheckoutLineItem
}

func (c *fakeSessionCreator) CreateCheckoutSession(_ context.Context, items []models.CheckoutLineItem) (*models.CheckoutSession, error) {
	c.calls++
	c.gotItems = items
	if c.err != nil {
		return nil, c.err
	}
	if c.session != nil {
		return c.session, nil
	}
	return nil, errors.New("no session configured")
}
