package cart

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sneaker = models.Product{ID: 1, Name: "Air Jordan 4 Retro 'Bred'", Price: 210.00, Category: "Sneakers"}
	laces   = models.Product{ID: 8, Name: "Spare Laces", Price: 0.50, Category: "Accessories"}
)

func TestAddItemMergesDuplicates(t *testing.T) {
	state := Clear(models.CartState{})

	state = AddItem(state, sneaker)
	state = AddItem(state, sneaker)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 2, state.ItemCount)
	assert.InDelta(t, 420.00, state.Total, 1e-9)
	assert.NoError(t, CheckInvariants(state))
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	state := Clear(models.CartState{})

	state = AddItem(state, sneaker)
	state = AddItem(state, laces)
	state = AddItem(state, sneaker)

	require.Len(t, state.Items, 2)
	assert.Equal(t, int64(1), state.Items[0].ID)
	assert.Equal(t, int64(8), state.Items[1].ID)
}

func TestUpdateQuantityAbsolute(t *testing.T) {
	state := AddItem(Clear(models.CartState{}), sneaker)

	state = UpdateQuantity(state, sneaker.ID, 5)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 5, state.ItemCount)
	assert.NoError(t, CheckInvariants(state))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	state := AddItem(Clear(models.CartState{}), sneaker)

	state = UpdateQuantity(state, sneaker.ID, 0)

	assert.Empty(t, state.Items)
	assert.Zero(t, state.ItemCount)
	assert.Zero(t, state.Total)
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	state := AddItem(Clear(models.CartState{}), sneaker)

	updated := UpdateQuantity(state, 999, 3)

	assert.Equal(t, state, updated)
}

func TestRemoveItem(t *testing.T) {
	state := AddItem(AddItem(Clear(models.CartState{}), sneaker), laces)

	state = RemoveItem(state, sneaker.ID)

	require.Len(t, state.Items, 1)
	assert.Equal(t, laces.ID, state.Items[0].ID)

	// removing an absent id is a no-op
	again := RemoveItem(state, sneaker.ID)
	assert.Equal(t, state, again)
}

func TestClearIsIdempotent(t *testing.T) {
	state := AddItem(Clear(models.CartState{}), sneaker)

	once := Clear(state)
	twice := Clear(once)

	assert.Equal(t, once, twice)
	assert.Empty(t, twice.Items)
	assert.Zero(t, twice.Total)
	assert.Zero(t, twice.ItemCount)
}

func TestSnapshotSurvivesClear(t *testing.T) {
	state := AddItem(AddItem(Clear(models.CartState{}), sneaker), laces)

	snapshot := Snapshot(state)
	state = Clear(state)

	assert.Empty(t, state.Items)
	require.Len(t, snapshot.Items, 2)
	assert.InDelta(t, 210.50, snapshot.Total, 1e-9)
}

func TestInvariantsHoldAcrossActionSequence(t *testing.T) {
	state := Clear(models.CartState{})

	steps := []func(models.CartState) models.CartState{
		func(s models.CartState) models.CartState { return AddItem(s, sneaker) },
		func(s models.CartState) models.CartState { return AddItem(s, laces) },
		func(s models.CartState) models.CartState { return AddItem(s, laces) },
		func(s models.CartState) models.CartState { return UpdateQuantity(s, laces.ID, 7) },
		func(s models.CartState) models.CartState { return RemoveItem(s, sneaker.ID) },
		func(s models.CartState) models.CartState { return UpdateQuantity(s, laces.ID, 0) },
		func(s models.CartState) models.CartState { return Clear(s) },
	}

	for i, step := range steps {
		state = step(state)
		require.NoErrorf(t, CheckInvariants(state), "invariant broken after step %d", i)
	}
}

func TestCheckInvariantsDetectsDrift(t *testing.T) {
	state := AddItem(Clear(models.CartState{}), sneaker)

	state.Total = 1.00
	assert.Error(t, CheckInvariants(state))

	state = AddItem(Clear(models.CartState{}), sneaker)
	state.Items[0].Quantity = -1
	assert.Error(t, CheckInvariants(state))
}
