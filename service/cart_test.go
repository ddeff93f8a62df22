package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddTwiceThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")

	require.NoError(t, f.carts.Add(ctx, userID, "P1", "M"))
	require.NoError(t, f.carts.Add(ctx, userID, "P1", "M"))

	cart, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.CartData{"P1": {"M": 2}}, cart)
}

func TestCart_UpdateRemovesEmptyEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")

	require.NoError(t, f.carts.Update(ctx, userID, "P1", "M", 3))
	require.NoError(t, f.carts.Update(ctx, userID, "P1", "L", 1))
	require.NoError(t, f.carts.Update(ctx, userID, "P1", "M", 0))

	cart, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.CartData{"P1": {"L": 1}}, cart)

	require.NoError(t, f.carts.Update(ctx, userID, "P1", "L", -2))
	cart, err = f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCart_UpdateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")

	require.NoError(t, f.carts.Update(ctx, userID, "P1", "M", 4))
	once, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, f.carts.Update(ctx, userID, "P1", "M", 4))
	twice, err := f.carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestCart_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")

	assert.ErrorIs(t, f.carts.Add(ctx, userID, "", "M"), ErrInvalidCartItem)
	assert.ErrorIs(t, f.carts.Add(ctx, userID, "P1", ""), ErrInvalidCartItem)
	assert.ErrorIs(t, f.carts.Update(ctx, userID, "", "M", 1), ErrInvalidCartItem)

	assert.ErrorIs(t, f.carts.Add(ctx, "missing", "P1", "M"), store.ErrUserNotFound)
	_, err := f.carts.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCart_RandomSequencesKeepInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")
	rng := rand.New(rand.NewSource(7))
	items := []string{"P1", "P2", "P3"}
	sizes := []string{"S", "M", "L"}

	for i := 0; i < 300; i++ {
		item := items[rng.Intn(len(items))]
		size := sizes[rng.Intn(len(sizes))]
		if rng.Intn(2) == 0 {
			require.NoError(t, f.carts.Add(ctx, userID, item, size))
		} else {
			require.NoError(t, f.carts.Update(ctx, userID, item, size, rng.Intn(5)-2))
		}
		cart, err := f.carts.Get(ctx, userID)
		require.NoError(t, err)
		require.True(t, cart.Valid(), "invalid cart after step %d: %v", i, cart)
	}
}
