package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func product(name string, price float64) Product {
	return Product{ID: primitive.NewObjectID(), Name: name, Price: price, CountInStock: 10}
}

func TestCartScenario(t *testing.T) {
	a := product("A", 10)
	b := product("B", 5)
	c := NewCart()

	c.Add(a)
	c.Add(b)
	assert.Equal(t, 2, c.Add(a))

	assert.Equal(t, 2, c.Quantity(a.ID))
	assert.Equal(t, 1, c.Quantity(b.ID))
	assert.Equal(t, 25.0, c.Total())

	assert.False(t, c.SetQuantity(b.ID, 0))
	assert.Equal(t, 1, c.Quantity(b.ID))

	c.Remove(b.ID)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Quantity(a.ID))
	assert.Equal(t, 20.0, c.Total())
}

func TestCartAddIncrementsByOne(t *testing.T) {
	p := product("Widget", 3)
	c := NewCart()
	c.Add(p)
	require.True(t, c.SetQuantity(p.ID, 7))
	assert.Equal(t, 8, c.Add(p))
}

func TestCartSetQuantityUnknownProduct(t *testing.T) {
	c := NewCart()
	assert.False(t, c.SetQuantity(primitive.NewObjectID(), 3))
	assert.True(t, c.Empty())
}

func TestCartInvariantsOverOperationSequence(t *testing.T) {
	ps := []Product{product("a", 1.5), product("b", 2), product("c", 0), product("d", 12)}
	c := NewCart()

	// deterministic pseudo-random walk over add/remove/setQuantity
	seed := uint32(7)
	next := func(n int) int {
		seed = seed*1103515245 + 12345
		return int(seed>>16) % n
	}
	for step := 0; step < 500; step++ {
		p := ps[next(len(ps))]
		switch next(3) {
		case 0:
			c.Add(p)
		case 1:
			c.Remove(p.ID)
		case 2:
			c.SetQuantity(p.ID, next(6)-1)
		}

		want := 0.0
		for _, item := range c.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1)
			want += float64(item.Quantity) * item.Product.Price
		}
		require.InDelta(t, want, c.Total(), 1e-9)
	}
}

func TestCartOrderBuildsLineItems(t *testing.T) {
	a := product("Apple", 2)
	b := product("Bread", 3.5)
	c := NewCart()
	c.Add(b)
	c.Add(a)
	c.Add(a)

	req := c.Order()
	require.Len(t, req.Items, 2)
	assert.Equal(t, OrderItem{Product: a.ID, Name: "Apple", Qty: 2, Price: 2}, req.Items[0])
	assert.Equal(t, OrderItem{Product: b.ID, Name: "Bread", Qty: 1, Price: 3.5}, req.Items[1])
	assert.Equal(t, 7.5, req.TotalPrice)
}

func TestCartCloneIsIndependent(t *testing.T) {
	p := product("X", 1)
	c := NewCart()
	c.Add(p)
	cp := c.Clone()
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 1, cp.Quantity(p.ID))
}
