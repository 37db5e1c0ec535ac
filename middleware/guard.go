package middleware

import (
	"go-oms/models"
	"go-oms/session"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard admits a view only for sessions whose role is in the permitted set.
type Guard struct {
	customer    bool
	admin       bool
	deliveryBoy bool
}

// RequireRoles builds a guard for the given roles.
func RequireRoles(roles ...models.Role) Guard {
	var g Guard
	for _, r := range roles {
		switch r {
		case models.RoleCustomer:
			g.customer = true
		case models.RoleAdmin:
			g.admin = true
		case models.RoleDeliveryBoy:
			g.deliveryBoy = true
		}
	}
	return g
}

// Check decides for the given session. Signed-out and wrong-role access get the
// same redirect; this only picks views, the backend enforces access.
func (g Guard) Check(sess session.Session, signedIn bool) Decision {
	if signedIn && g.permits(sess.Role) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: session.EntryRoute}
}

func (g Guard) permits(r models.Role) bool {
	switch r {
	case models.RoleCustomer:
		return g.customer
	case models.RoleAdmin:
		return g.admin
	case models.RoleDeliveryBoy:
		return g.deliveryBoy
	default:
		return false
	}
}
