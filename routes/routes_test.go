package routes

import (
	"testing"

	"go-oms/models"
	"go-oms/session"

	"github.com/stretchr/testify/assert"
)

func TestResolvePublicViews(t *testing.T) {
	r := New()
	res := r.Resolve("/register", session.Session{}, false)
	assert.Equal(t, ViewRegister, res.View)

	res = r.Resolve("/reset-password/abc-123", session.Session{}, false)
	assert.Equal(t, ViewResetPassword, res.View)
	assert.Equal(t, "abc-123", res.Vars["resetToken"])
}

func TestResolveUnknownGoesToLogin(t *testing.T) {
	r := New()
	res := r.Resolve("/nowhere", session.Session{}, false)
	assert.Equal(t, ViewLogin, res.View)
	assert.Equal(t, LoginPath, res.Path)
}

func TestResolveGuardsByRole(t *testing.T) {
	r := New()
	customer := session.Session{Role: models.RoleCustomer}
	admin := session.Session{Role: models.RoleAdmin}
	boy := session.Session{Role: models.RoleDeliveryBoy}

	assert.Equal(t, ViewDashboard, r.Resolve(DashboardPath, customer, true).View)
	assert.Equal(t, ViewDashboard, r.Resolve(DashboardPath, boy, true).View)
	assert.Equal(t, ViewDashboard, r.Resolve(DashboardPath, admin, true).View)
	assert.Equal(t, ViewAdmin, r.Resolve(AdminPath, admin, true).View)

	// wrong role and no session are treated alike; the login screen then
	// forwards a signed-in user to their own home
	assert.Equal(t, ViewDashboard, r.Resolve(AdminPath, customer, true).View)
	assert.Equal(t, ViewLogin, r.Resolve(AdminPath, session.Session{}, false).View)
	assert.Equal(t, ViewLogin, r.Resolve(DashboardPath, session.Session{}, false).View)
}

func TestResolveLoginWhenSignedIn(t *testing.T) {
	r := New()
	res := r.Resolve(LoginPath, session.Session{Role: models.RoleAdmin}, true)
	assert.Equal(t, ViewAdmin, res.View)
}

func TestHomeAndResetPath(t *testing.T) {
	assert.Equal(t, AdminPath, Home(models.RoleAdmin))
	assert.Equal(t, DashboardPath, Home(models.RoleDeliveryBoy))
	assert.Equal(t, LoginPath, Home(""))
	assert.Equal(t, "/reset-password/tok", ResetPath("tok"))
}
