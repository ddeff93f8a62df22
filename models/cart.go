package models

// CartData maps an item id to the quantities held per size label.
// Quantities are always > 0 and no item maps to an empty size set.
type CartData map[string]map[string]int

// Add increments the (item, size) quantity by one, creating nested entries as needed.
func (c CartData) Add(itemID, size string) {
	sizes, ok := c[itemID]
	if !ok {
		sizes = make(map[string]int)
		c[itemID] = sizes
	}
	sizes[size]++
}

// Set writes quantity for (item, size). A quantity <= 0 removes the entry and
// drops the item once it has no sizes left.
func (c CartData) Set(itemID, size string, quantity int) {
	if quantity <= 0 {
		c.remove(itemID, size)
		return
	}
	sizes, ok := c[itemID]
	if !ok {
		sizes = make(map[string]int)
		c[itemID] = sizes
	}
	sizes[size] = quantity
}

func (c CartData) remove(itemID, size string) {
	sizes, ok := c[itemID]
	if !ok {
		return
	}
	delete(sizes, size)
	if len(sizes) == 0 {
		delete(c, itemID)
	}
}

// Normalize drops non-positive quantities and empty items in place.
// Documents written before the invariant was enforced can hold either.
func (c CartData) Normalize() CartData {
	for itemID, sizes := range c {
		for size, qty := range sizes {
			if qty <= 0 {
				delete(sizes, size)
			}
		}
		if len(sizes) == 0 {
			delete(c, itemID)
		}
	}
	return c
}

// Valid reports whether every leaf is positive and no item is empty.
func (c CartData) Valid() bool {
	for _, sizes := range c {
		if len(sizes) == 0 {
			return false
		}
		for _, qty := range sizes {
			if qty <= 0 {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy. A nil cart clones to an empty one.
func (c CartData) Clone() CartData {
	out := make(CartData, len(c))
	for itemID, sizes := range c {
		cp := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			cp[size] = qty
		}
		out[itemID] = cp
	}
	return out
}
