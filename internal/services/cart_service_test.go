package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartForTest(t *testing.T) (CartService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCartService(rdb, time.Hour), mr
}

func TestCartService_CreateAndGet(t *testing.T) {
	svc, mr := newCartForTest(t)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.Lines)

	// Every cart lives under its own key with a TTL.
	assert.True(t, mr.Exists("cart:"+cart.ID))
	assert.Equal(t, time.Hour, mr.TTL("cart:"+cart.ID))

	got, err := svc.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
}

func TestCartService_CartsAreIsolated(t *testing.T) {
	svc, _ := newCartForTest(t)
	ctx := context.Background()

	first, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	second, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = svc.AddItem(ctx, first.ID, CartLine{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	got, err := svc.GetCart(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestCartService_AddItemMergesSameCombination(t *testing.T) {
	svc, _ := newCartForTest(t)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	variantID := int64(4)
	_, err = svc.AddItem(ctx, cart.ID, CartLine{ProductID: 1, VariantID: &variantID, ModifierIDs: []int64{9, 7}, Quantity: 1})
	require.NoError(t, err)
	// Same combination, modifier order reversed: merges into one line.
	got, err := svc.AddItem(ctx, cart.ID, CartLine{ProductID: 1, VariantID: &variantID, ModifierIDs: []int64{7, 9}, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)

	// Different combination stays its own line.
	got, err = svc.AddItem(ctx, cart.ID, CartLine{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestCartService_DecreaseAndRemove(t *testing.T) {
	svc, _ := newCartForTest(t)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, CartLine{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	got, err := svc.DecreaseItem(ctx, cart.ID, CartLine{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[0].Quantity)

	// Dropping to zero removes the line.
	got, err = svc.DecreaseItem(ctx, cart.ID, CartLine{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	_, err = svc.DecreaseItem(ctx, cart.ID, CartLine{ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddItem(ctx, cart.ID, CartLine{ProductID: 2, Quantity: 5})
	require.NoError(t, err)
	got, err = svc.RemoveItem(ctx, cart.ID, CartLine{ProductID: 2, Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, mr := newCartForTest(t)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, cart.ID))
	assert.False(t, mr.Exists("cart:"+cart.ID))

	assert.ErrorIs(t, svc.ClearCart(ctx, cart.ID), ErrNotFound)
	_, err = svc.GetCart(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_ExpiredCartIsGone(t *testing.T) {
	svc, mr := newCartForTest(t)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.GetCart(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCart_ToCheckoutItems(t *testing.T) {
	variantID := int64(4)
	cart := &Cart{
		ID: "abc",
		Lines: []CartLine{
			{ProductID: 1, VariantID: &variantID, ModifierIDs: []int64{7}, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}

	items := cart.ToCheckoutItems()

	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, &variantID, items[0].VariantID)
	assert.Equal(t, []int64{7}, items[0].ModifierIDs)
	assert.Equal(t, 2, items[0].Quantity)
}
