package api

import (
	"context"
	"net/http"

	"go-oms/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListUsers fetches all accounts (admin).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.getJSON(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUserRole changes a user's role.
func (c *Client) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return c.sendJSON(ctx, http.MethodPut, "/users/"+id.Hex()+"/role", map[string]string{"role": string(role)}, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id.Hex(), nil, "", nil)
}
