package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusProcessing     OrderStatus = "Processing"
	StatusReadyForPickup OrderStatus = "ReadyForPickup"
	StatusPickedUp       OrderStatus = "PickedUp"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// Progression lists the forward path of an order; Cancelled sits outside it.
var Progression = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusReadyForPickup,
	StatusPickedUp,
	StatusOutForDelivery,
	StatusDelivered,
}

// StatusOptions are the statuses an admin may set directly once pickup is booked.
var StatusOptions = []OrderStatus{
	StatusReadyForPickup,
	StatusPickedUp,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	for _, p := range Progression {
		if p == s {
			return true
		}
	}
	return false
}

// Settable reports whether s may be chosen from the admin status selector.
func (s OrderStatus) Settable() bool {
	for _, o := range StatusOptions {
		if o == s {
			return true
		}
	}
	return false
}

// Label spaces out the camel-cased wire value.
func (s OrderStatus) Label() string {
	switch s {
	case StatusReadyForPickup:
		return "Ready For Pickup"
	case StatusPickedUp:
		return "Picked Up"
	case StatusOutForDelivery:
		return "Out For Delivery"
	}
	return string(s)
}

// UserRef is an order's reference to a user. The backend sends either the bare id
// or a populated user document.
type UserRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name,omitempty"`
	Email string             `json:"email,omitempty"`
}

// UnmarshalJSON accepts both the id string and the populated object forms.
func (r *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = UserRef{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id primitive.ObjectID
		if err := id.UnmarshalJSON(b); err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = UserRef(p)
	return nil
}

// IsZero reports whether the reference is unset.
func (r UserRef) IsZero() bool {
	return r.ID.IsZero()
}

// OrderItem is a line item snapshot taken when the order was placed
type OrderItem struct {
	Product primitive.ObjectID `json:"product"`
	Name    string             `json:"name"`
	Qty     int                `json:"qty"`
	Price   float64            `json:"price"`
}

// Subtotal is qty × price.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Qty) * i.Price
}

// Order represents a placed order
type Order struct {
	ID          primitive.ObjectID `json:"_id"`
	User        UserRef            `json:"user"`
	Items       []OrderItem        `json:"orderItems"`
	TotalPrice  float64            `json:"totalPrice"`
	Status      OrderStatus        `json:"status"`
	Warehouse   string             `json:"warehouse,omitempty"`
	DeliveryBoy *UserRef           `json:"deliveryBoy,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ShortID is the eight character prefix shown in listings.
func (o Order) ShortID() string {
	return o.ID.Hex()[:8]
}

// AwaitingPickup reports whether the order still needs logistics booked.
func (o Order) AwaitingPickup() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// NewOrder is the body of an order placement request
type NewOrder struct {
	Items      []OrderItem `json:"orderItems"`
	TotalPrice float64     `json:"totalPrice"`
}
