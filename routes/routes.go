// routes/routes.go
package routes

import (
	"net/http"

	"go-oms/middleware"
	"go-oms/models"
	"go-oms/session"

	"github.com/gorilla/mux"
)

// View names the screen a path resolves to.
type View string

const (
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewForgotPassword View = "forgot-password"
	ViewResetPassword  View = "reset-password"
	ViewDashboard      View = "dashboard"
	ViewAdmin          View = "admin"
)

const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	ForgotPath    = "/forgot-password"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Resolution is where a navigation ends up.
type Resolution struct {
	View View
	Path string
	Vars map[string]string
}

type route struct {
	view  View
	guard *middleware.Guard
}

// Router maps paths to views and applies the role guard.
type Router struct {
	mux    *mux.Router
	routes map[*mux.Route]route
}

// New registers the application's views.
func New() *Router {
	r := &Router{mux: mux.NewRouter(), routes: make(map[*mux.Route]route)}

	// Public views
	r.register(LoginPath, ViewLogin, nil)
	r.register(RegisterPath, ViewRegister, nil)
	r.register(ForgotPath, ViewForgotPassword, nil)
	r.register("/reset-password/{resetToken}", ViewResetPassword, nil)

	// Signed-in views
	dashboard := middleware.RequireRoles(models.RoleCustomer, models.RoleAdmin, models.RoleDeliveryBoy)
	r.register(DashboardPath, ViewDashboard, &dashboard)

	admin := middleware.RequireRoles(models.RoleAdmin)
	r.register(AdminPath, ViewAdmin, &admin)
	return r
}

func (r *Router) register(path string, view View, guard *middleware.Guard) {
	rt := r.mux.Path(path)
	r.routes[rt] = route{view: view, guard: guard}
}

// Resolve maps path to a view for the given session. Unknown paths and denied
// views land on the login screen; a signed-in user asking for login goes home.
func (r *Router) Resolve(path string, sess session.Session, signedIn bool) Resolution {
	for hops := 0; hops < 3; hops++ {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		var match mux.RouteMatch
		if err != nil || !r.mux.Match(req, &match) {
			path = LoginPath
			continue
		}
		rt := r.routes[match.Route]
		if rt.guard != nil {
			if d := rt.guard.Check(sess, signedIn); !d.Allow {
				path = d.Redirect
				continue
			}
		}
		if rt.view == ViewLogin && signedIn {
			path = Home(sess.Role)
			continue
		}
		return Resolution{View: rt.view, Path: path, Vars: match.Vars}
	}
	return Resolution{View: ViewLogin, Path: LoginPath}
}

// Home is the landing path for a role.
func Home(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminPath
	case models.RoleCustomer, models.RoleDeliveryBoy:
		return DashboardPath
	default:
		return LoginPath
	}
}

// ResetPath builds the reset-password path for a token.
func ResetPath(token string) string {
	u, err := mux.NewRouter().Path("/reset-password/{resetToken}").URLPath("resetToken", token)
	if err != nil {
		return LoginPath
	}
	return u.Path
}
