package api

import (
	"context"
	"net/http"

	"go-oms/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListOrders fetches every order (admin).
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.getJSON(ctx, "/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyOrders fetches the signed-in user's order history.
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.getJSON(ctx, "/orders/myorders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, order models.NewOrder) (*models.Order, error) {
	var out models.Order
	if err := c.sendJSON(ctx, http.MethodPost, "/orders", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	body := map[string]string{"status": string(status)}
	return c.sendJSON(ctx, http.MethodPut, "/orders/"+id.Hex()+"/status", body, nil)
}

// AssignLogistics books pickup from a warehouse and assigns a delivery boy.
func (c *Client) AssignLogistics(ctx context.Context, id primitive.ObjectID, warehouse string, deliveryBoy primitive.ObjectID) error {
	body := map[string]string{"warehouse": warehouse, "deliveryBoyId": deliveryBoy.Hex()}
	return c.sendJSON(ctx, http.MethodPut, "/orders/"+id.Hex()+"/logistics", body, nil)
}
