package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartData_AddCreatesNestedEntries(t *testing.T) {
	cart := CartData{}
	cart.Add("P1", "M")
	cart.Add("P1", "M")
	cart.Add("P1", "L")

	assert.Equal(t, CartData{"P1": {"M": 2, "L": 1}}, cart)
}

func TestCartData_SetZeroDeletesLeafAndEmptyItem(t *testing.T) {
	cart := CartData{"P1": {"M": 2, "L": 1}, "P2": {"S": 1}}

	cart.Set("P1", "M", 0)
	assert.Equal(t, CartData{"P1": {"L": 1}, "P2": {"S": 1}}, cart)

	cart.Set("P1", "L", -3)
	assert.Equal(t, CartData{"P2": {"S": 1}}, cart)
}

func TestCartData_SetMissingEntryIsNoop(t *testing.T) {
	cart := CartData{"P1": {"M": 1}}
	cart.Set("P9", "XL", 0)
	assert.Equal(t, CartData{"P1": {"M": 1}}, cart)
}

func TestCartData_SetIsIdempotent(t *testing.T) {
	once := CartData{"P1": {"M": 1}}
	once.Set("P1", "M", 5)

	twice := CartData{"P1": {"M": 1}}
	twice.Set("P1", "M", 5)
	twice.Set("P1", "M", 5)

	assert.Equal(t, once, twice)
}

func TestCartData_NormalizeDropsInvalidLeaves(t *testing.T) {
	cart := CartData{"P1": {"M": 0, "L": 2}, "P2": {}, "P3": {"S": -1}}
	cart.Normalize()

	assert.Equal(t, CartData{"P1": {"L": 2}}, cart)
	assert.True(t, cart.Valid())
}

func TestCartData_CloneIsDeep(t *testing.T) {
	cart := CartData{"P1": {"M": 1}}
	cp := cart.Clone()
	cp.Add("P1", "M")

	assert.Equal(t, 1, cart["P1"]["M"])
	assert.Equal(t, 2, cp["P1"]["M"])

	var empty CartData
	assert.NotNil(t, empty.Clone())
}

// Random add/set sequences must never leave a non-positive quantity or an empty item.
func TestCartData_RandomSequencesKeepInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := []string{"P1", "P2", "P3"}
	sizes := []string{"S", "M", "L"}

	for run := 0; run < 200; run++ {
		cart := CartData{}
		for step := 0; step < 50; step++ {
			item := items[rng.Intn(len(items))]
			size := sizes[rng.Intn(len(sizes))]
			if rng.Intn(2) == 0 {
				cart.Add(item, size)
			} else {
				cart.Set(item, size, rng.Intn(5)-2)
			}
			require.True(t, cart.Valid(), "run %d step %d: %v", run, step, cart)
		}
	}
}

func TestOrder_ItemSummary(t *testing.T) {
	o := &Order{Items: []OrderItem{{Name: "Tee"}, {Name: "Hoodie"}}}
	assert.Equal(t, "Tee, Hoodie", o.ItemSummary())
	assert.Equal(t, "", (&Order{}).ItemSummary())
}

func TestAddress_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Address{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", Address{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", Address{LastName: "Lovelace"}.FullName())
}
