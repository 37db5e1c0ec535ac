package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the server-owned catalogue entry
type Product struct {
	ID           primitive.ObjectID `json:"_id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        float64            `json:"price"`
	CountInStock int                `json:"countInStock"`
	ImageURL     string             `json:"imageUrl,omitempty"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.CountInStock > 0
}

// ResolveAsset turns a server-relative image path into an absolute URL.
// Absolute URLs are returned untouched and empty paths stay empty.
func ResolveAsset(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(base, "/") + path
}
