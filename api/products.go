package api

import (
	"context"
	"net/http"
	"strconv"

	"go-oms/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductInput is the admin product form.
type ProductInput struct {
	Name         string
	Description  string
	Price        float64
	CountInStock int
	Image        *Upload
}

func (p ProductInput) fields() []field {
	return []field{
		{"name", p.Name},
		{"price", strconv.FormatFloat(p.Price, 'f', -1, 64)},
		{"description", p.Description},
		{"countInStock", strconv.Itoa(p.CountInStock)},
	}
}

// ListProducts fetches the catalogue.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.getJSON(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct adds a product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.sendMultipart(ctx, http.MethodPost, "/products", in.fields(), "image", in.Image, nil)
}

// UpdateProduct replaces a product's fields; the image is only replaced when given.
func (c *Client) UpdateProduct(ctx context.Context, id primitive.ObjectID, in ProductInput) error {
	return c.sendMultipart(ctx, http.MethodPut, "/products/"+id.Hex(), in.fields(), "image", in.Image, nil)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id.Hex(), nil, "", nil)
}
