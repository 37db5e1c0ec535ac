package controllers

import (
	"context"
	"fmt"

	"go-oms/api"
	"go-oms/models"
	"go-oms/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminAPI is the part of the backend the admin dashboard uses.
type AdminAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateProduct(ctx context.Context, in api.ProductInput) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, in api.ProductInput) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	AssignLogistics(ctx context.Context, id primitive.ObjectID, warehouse string, deliveryBoy primitive.ObjectID) error
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// Lists is everything the admin dashboard shows.
type Lists struct {
	Products []models.Product
	Orders   []models.Order
	Users    []models.User
}

// Stats summarises Lists for the overview tab.
type Stats struct {
	Products  int
	Orders    int
	Users     int
	Pending   int
	Delivered int
	Revenue   float64
}

// Stats computes the overview figures. Cancelled orders earn nothing.
func (l Lists) Stats() Stats {
	s := Stats{Products: len(l.Products), Orders: len(l.Orders), Users: len(l.Users)}
	for _, o := range l.Orders {
		switch {
		case o.Status == models.StatusDelivered:
			s.Delivered++
		case o.AwaitingPickup():
			s.Pending++
		}
		if o.Status != models.StatusCancelled {
			s.Revenue += o.TotalPrice
		}
	}
	return s
}

// Mutation is one admin action. Every mutation follows the same contract: one
// call, then a full reload on success.
type Mutation interface {
	validate() error
	apply(ctx context.Context, a AdminAPI) error
	success() string
	fallback() string
}

// ProductForm creates a product, or updates one when ID is set. Price and Stock
// are the raw form entries.
type ProductForm struct {
	ID          primitive.ObjectID
	Name        string `validate:"notblank"`
	Description string
	Price       string
	Stock       string
	Image       *api.Upload

	input api.ProductInput
}

func (f *ProductForm) validate() error {
	if err := utils.Check(f, utils.Messages{"Name": "Please enter a product name."}); err != nil {
		return err
	}
	price, err := utils.ParsePrice(f.Price)
	if err != nil {
		return err
	}
	stock, err := utils.ParseStock(f.Stock)
	if err != nil {
		return err
	}
	f.input = api.ProductInput{
		Name:         f.Name,
		Description:  f.Description,
		Price:        price,
		CountInStock: stock,
		Image:        f.Image,
	}
	return nil
}

func (f *ProductForm) apply(ctx context.Context, a AdminAPI) error {
	if f.ID.IsZero() {
		return a.CreateProduct(ctx, f.input)
	}
	return a.UpdateProduct(ctx, f.ID, f.input)
}

func (f *ProductForm) success() string {
	if f.ID.IsZero() {
		return "Product added successfully!"
	}
	return "Product updated successfully!"
}

func (f *ProductForm) fallback() string {
	if f.ID.IsZero() {
		return "Failed to create product"
	}
	return "Failed to update product"
}

// DeleteProduct removes a product.
type DeleteProduct struct {
	ID primitive.ObjectID
}

func (m DeleteProduct) validate() error { return nil }
func (m DeleteProduct) apply(ctx context.Context, a AdminAPI) error {
	return a.DeleteProduct(ctx, m.ID)
}
func (m DeleteProduct) success() string  { return "Product deleted successfully!" }
func (m DeleteProduct) fallback() string { return "Failed to delete product" }

// SetOrderStatus moves an order once pickup is booked. From is the order's
// current status; Pending and Processing orders only advance through
// AssignLogistics.
type SetOrderStatus struct {
	ID     primitive.ObjectID
	From   models.OrderStatus
	Status models.OrderStatus
}

func (m SetOrderStatus) validate() error {
	if (models.Order{Status: m.From}).AwaitingPickup() {
		return utils.Invalid("Book pickup first.")
	}
	if !m.Status.Settable() {
		return utils.Invalid("Please choose a valid status.")
	}
	return nil
}
func (m SetOrderStatus) apply(ctx context.Context, a AdminAPI) error {
	return a.UpdateOrderStatus(ctx, m.ID, m.Status)
}
func (m SetOrderStatus) success() string {
	return fmt.Sprintf("Order status updated to %q successfully!", string(m.Status))
}
func (m SetOrderStatus) fallback() string { return "Failed to update order status" }

// AssignLogistics books pickup from a warehouse with a delivery boy.
type AssignLogistics struct {
	OrderID     primitive.ObjectID
	Warehouse   string
	DeliveryBoy primitive.ObjectID
}

func (m AssignLogistics) validate() error {
	if utils.Blank(m.Warehouse) {
		return utils.Invalid("Please enter a warehouse.")
	}
	if m.DeliveryBoy.IsZero() {
		return utils.Invalid("Please select a delivery boy.")
	}
	return nil
}
func (m AssignLogistics) apply(ctx context.Context, a AdminAPI) error {
	return a.AssignLogistics(ctx, m.OrderID, m.Warehouse, m.DeliveryBoy)
}
func (m AssignLogistics) success() string {
	return "Pickup booked and delivery boy assigned successfully!"
}
func (m AssignLogistics) fallback() string { return "Failed to assign logistics" }

// SetUserRole promotes staff between admin and delivery roles.
type SetUserRole struct {
	User models.User
	Role models.Role
}

func (m SetUserRole) validate() error {
	if !m.User.Manageable() {
		return utils.Invalid("Customer accounts cannot be changed.")
	}
	if m.Role != models.RoleAdmin && m.Role != models.RoleDeliveryBoy {
		return utils.Invalid("Please choose a valid role.")
	}
	if m.Role == m.User.Role {
		return utils.Invalid(fmt.Sprintf("%s is already a %s.", m.User.Name, m.Role))
	}
	return nil
}
func (m SetUserRole) apply(ctx context.Context, a AdminAPI) error {
	return a.UpdateUserRole(ctx, m.User.ID, m.Role)
}
func (m SetUserRole) success() string {
	return fmt.Sprintf("User role updated to %q successfully!", string(m.Role))
}
func (m SetUserRole) fallback() string { return "Failed to update user role" }

// DeleteUser removes a staff account.
type DeleteUser struct {
	User models.User
}

func (m DeleteUser) validate() error {
	if !m.User.Manageable() {
		return utils.Invalid("Customer accounts cannot be deleted.")
	}
	return nil
}
func (m DeleteUser) apply(ctx context.Context, a AdminAPI) error {
	return a.DeleteUser(ctx, m.User.ID)
}
func (m DeleteUser) success() string  { return "User deleted successfully!" }
func (m DeleteUser) fallback() string { return "Failed to delete user" }

// Outcome is the result of an applied mutation.
type Outcome struct {
	Message string
	// Lists is the full reload; nil when the reload failed.
	Lists *Lists
	// ReloadErr is set when the mutation succeeded but the reload did not.
	ReloadErr error
}

// Admin drives the management dashboard
type Admin struct {
	api    AdminAPI
	logger *zap.Logger
}

// NewAdmin creates an Admin controller.
func NewAdmin(a AdminAPI, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{api: a, logger: logger}
}

// Load fetches products, orders and users in full.
func (a *Admin) Load(ctx context.Context) (Lists, error) {
	const msg = "Failed to load data. Please refresh the page."
	var l Lists
	var err error
	if l.Products, err = a.api.ListProducts(ctx); err != nil {
		return Lists{}, &Failure{Message: msg, Err: err}
	}
	if l.Orders, err = a.api.ListOrders(ctx); err != nil {
		return Lists{}, &Failure{Message: msg, Err: err}
	}
	if l.Users, err = a.api.ListUsers(ctx); err != nil {
		return Lists{}, &Failure{Message: msg, Err: err}
	}
	return l, nil
}

// Apply runs m: validation, one mutating call, then a reload of all three
// lists. A failed call returns the server's message or the action's fallback
// and reloads nothing.
func (a *Admin) Apply(ctx context.Context, m Mutation) (*Outcome, error) {
	if err := m.validate(); err != nil {
		return nil, fail(err, m.fallback())
	}
	if err := m.apply(ctx, a.api); err != nil {
		a.logger.Warn("admin action failed", zap.String("action", fmt.Sprintf("%T", m)), zap.Error(err))
		return nil, fail(err, m.fallback())
	}

	out := &Outcome{Message: m.success()}
	lists, err := a.Load(ctx)
	if err != nil {
		a.logger.Warn("reload after admin action failed", zap.Error(err))
		out.ReloadErr = err
		return out, nil
	}
	out.Lists = &lists
	return out, nil
}
