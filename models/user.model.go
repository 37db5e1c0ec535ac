package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of actor roles issued by the backend.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleAdmin       Role = "admin"
	RoleDeliveryBoy Role = "delivery_boy"
)

// ParseRole converts a wire role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin, RoleDeliveryBoy:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Label is the human form used in listings.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleDeliveryBoy:
		return "Delivery"
	default:
		return "Customer"
	}
}

// User represents a user account as listed to admins
type User struct {
	ID           primitive.ObjectID `json:"_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Role         Role               `json:"role"`
	PhoneNumber  string             `json:"phoneNumber,omitempty"`
	Location     string             `json:"location,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty"`
}

// Manageable reports whether admins may change the role of or delete this user.
// Customer accounts are left alone.
func (u User) Manageable() bool {
	return u.Role != RoleCustomer
}

// DeliveryBoys filters users down to delivery staff.
func DeliveryBoys(users []User) []User {
	var out []User
	for _, u := range users {
		if u.Role == RoleDeliveryBoy {
			out = append(out, u)
		}
	}
	return out
}

// FindUser looks a user up by id.
func FindUser(users []User, id primitive.ObjectID) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
