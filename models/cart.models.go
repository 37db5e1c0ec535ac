package models

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents a product held in the cart with its selected quantity
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal is quantity × unit price.
func (ci CartItem) Subtotal() float64 {
	return float64(ci.Quantity) * ci.Product.Price
}

// Cart is the in-memory selection of one customer session. It is never persisted.
// Every entry has a quantity of at least 1; dropping an item removes it.
type Cart struct {
	items map[primitive.ObjectID]CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{items: make(map[primitive.ObjectID]CartItem)}
}

// Add inserts the product with quantity 1 or increments the existing quantity by 1.
// It returns the resulting quantity.
func (c *Cart) Add(p Product) int {
	item, ok := c.items[p.ID]
	if !ok {
		item = CartItem{Product: p}
	} else {
		item.Product = p
	}
	item.Quantity++
	c.items[p.ID] = item
	return item.Quantity
}

// Remove deletes the entry for id.
func (c *Cart) Remove(id primitive.ObjectID) {
	delete(c.items, id)
}

// SetQuantity overwrites the quantity for id. Quantities below 1 and unknown
// products are ignored; the return value reports whether the cart changed.
func (c *Cart) SetQuantity(id primitive.ObjectID, n int) bool {
	if n < 1 {
		return false
	}
	item, ok := c.items[id]
	if !ok {
		return false
	}
	item.Quantity = n
	c.items[id] = item
	return true
}

// Quantity returns the selected quantity for id, 0 when absent.
func (c *Cart) Quantity(id primitive.ObjectID) int {
	return c.items[id].Quantity
}

// Len is the number of distinct products.
func (c *Cart) Len() int {
	return len(c.items)
}

// Empty reports whether the cart holds nothing.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Count is the total number of units across all entries.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Total is Σ quantity × price.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Items returns the entries ordered by product name, then id.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product.Name != out[j].Product.Name {
			return out[i].Product.Name < out[j].Product.Name
		}
		return out[i].Product.ID.Hex() < out[j].Product.ID.Hex()
	})
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = make(map[primitive.ObjectID]CartItem)
}

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	cp := NewCart()
	for id, item := range c.items {
		cp.items[id] = item
	}
	return cp
}

// Order builds the placement request from the current entries.
func (c *Cart) Order() NewOrder {
	items := c.Items()
	req := NewOrder{Items: make([]OrderItem, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, OrderItem{
			Product: item.Product.ID,
			Name:    item.Product.Name,
			Qty:     item.Quantity,
			Price:   item.Product.Price,
		})
		req.TotalPrice += item.Subtotal()
	}
	return req
}
