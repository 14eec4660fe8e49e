package cart

import (
	"fmt"
	"math"

	"storefront-service/internal/models"
)

// Pure transitions over models.CartState. Every transition returns a new
// state with Total and ItemCount recomputed; callers never adjust the
// derived fields themselves.

// AddItem adds one unit of product to the cart. If a line item with the
// product's id already exists its quantity is incremented, otherwise a
// new line is appended in insertion order.
func AddItem(state models.CartState, product models.Product) models.CartState {
	next := cloneState(state)

	for i := range next.Items {
		if next.Items[i].ID == product.ID {
			next.Items[i].Quantity++
			return recompute(next)
		}
	}

	next.Items = append(next.Items, models.CartItem{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    1,
		Image:       product.Image,
		Category:    product.Category,
		Description: product.Description,
	})
	return recompute(next)
}

// UpdateQuantity sets the quantity of a line item to an absolute value.
// A quantity of zero or below removes the line. Unknown ids are a no-op.
func UpdateQuantity(state models.CartState, productID int64, quantity int) models.CartState {
	if quantity <= 0 {
		return RemoveItem(state, productID)
	}

	next := cloneState(state)
	for i := range next.Items {
		if next.Items[i].ID == productID {
			next.Items[i].Quantity = quantity
			return recompute(next)
		}
	}
	return recompute(next)
}

// RemoveItem removes the line item for productID if present.
func RemoveItem(state models.CartState, productID int64) models.CartState {
	next := models.CartState{Items: make([]models.CartItem, 0, len(state.Items))}
	for _, item := range state.Items {
		if item.ID != productID {
			next.Items = append(next.Items, item)
		}
	}
	return recompute(next)
}

// Clear resets the cart to the empty state. Idempotent.
func Clear(models.CartState) models.CartState {
	return recompute(models.CartState{Items: []models.CartItem{}})
}

// Snapshot returns a deep copy of the state, safe to hold across a
// later Clear of the original.
func Snapshot(state models.CartState) models.CartState {
	return cloneState(state)
}

// CheckInvariants verifies the derived-field and quantity invariants.
// A non-nil error indicates a defect in a transition, not bad input.
func CheckInvariants(state models.CartState) error {
	var total float64
	var count int
	for _, item := range state.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("line item %d has non-positive quantity %d", item.ID, item.Quantity)
		}
		if item.Price < 0 {
			return fmt.Errorf("line item %d has negative price %f", item.ID, item.Price)
		}
		total += item.Price * float64(item.Quantity)
		count += item.Quantity
	}
	if math.Abs(total-state.Total) > 1e-9 {
		return fmt.Errorf("total drift: derived %f, stored %f", total, state.Total)
	}
	if count != state.ItemCount {
		return fmt.Errorf("item count drift: derived %d, stored %d", count, state.ItemCount)
	}
	return nil
}

func recompute(state models.CartState) models.CartState {
	state.Total = 0
	state.ItemCount = 0
	for _, item := range state.Items {
		state.Total += item.Price * float64(item.Quantity)
		state.ItemCount += item.Quantity
	}
	return state
}

func cloneState(state models.CartState) models.CartState {
	items := make([]models.CartItem, len(state.Items))
	copy(items, state.Items)
	return models.CartState{
		Items:     items,
		Total:     state.Total,
		ItemCount: state.ItemCount,
	}
}
