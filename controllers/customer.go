package controllers

import (
	"context"
	"fmt"

	"go-oms/models"

	"go.uber.org/zap"
)

// CustomerAPI is the part of the backend the customer dashboard uses.
type CustomerAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	MyOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, order models.NewOrder) (*models.Order, error)
}

// Storefront is what the customer dashboard shows.
type Storefront struct {
	Products []models.Product
	Orders   []models.Order
}

// OrderPlaced is the outcome of a successful order placement.
type OrderPlaced struct {
	Message string
	Order   *models.Order
	// Orders is the refreshed history; nil when the refetch failed.
	Orders []models.Order
}

// Customer drives the shopping dashboard
type Customer struct {
	api    CustomerAPI
	logger *zap.Logger
}

// NewCustomer creates a Customer controller.
func NewCustomer(a CustomerAPI, logger *zap.Logger) *Customer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Customer{api: a, logger: logger}
}

// Load fetches the catalogue and the order history. A failed history fetch
// leaves the history empty rather than failing the dashboard.
func (c *Customer) Load(ctx context.Context) (Storefront, error) {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return Storefront{}, fail(err, "Failed to load products.")
	}
	orders, err := c.api.MyOrders(ctx)
	if err != nil {
		c.logger.Warn("could not load order history", zap.Error(err))
		orders = nil
	}
	return Storefront{Products: products, Orders: orders}, nil
}

// AddToCart puts one unit of p in cart.
func (c *Customer) AddToCart(cart *models.Cart, p models.Product) (string, error) {
	if !p.InStock() {
		return "", invalid(fmt.Sprintf("%s is out of stock.", p.Name))
	}
	cart.Add(p)
	return fmt.Sprintf("Added %s to cart", p.Name), nil
}

// PlaceOrder submits cart as one order. An empty cart sends nothing. On success
// the cart is cleared and the history refetched; on failure the cart is left as
// it was so the user can retry.
func (c *Customer) PlaceOrder(ctx context.Context, cart *models.Cart) (*OrderPlaced, error) {
	if cart.Empty() {
		return nil, ErrEmptyCart
	}
	req := cart.Order()

	order, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		c.logger.Warn("order placement failed", zap.Error(err), zap.Int("lines", len(req.Items)))
		return nil, &Failure{Message: "Failed to place order", Err: err}
	}
	cart.Clear()
	c.logger.Info("order placed", zap.Int("lines", len(req.Items)), zap.Float64("total", req.TotalPrice))

	placed := &OrderPlaced{Message: "Order placed successfully!", Order: order}
	orders, err := c.api.MyOrders(ctx)
	if err != nil {
		c.logger.Warn("could not refresh order history", zap.Error(err))
		return placed, nil
	}
	placed.Orders = orders
	return placed, nil
}
