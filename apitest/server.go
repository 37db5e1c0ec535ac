// Package apitest is an in-memory stand-in for the order-management backend.
// It serves the same routes and payloads as the real API and backs the client
// tests and the `oms mock-server` command.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"go-oms/models"
	"go-oms/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userContextKey = contextKey("user")

// account is a stored user with its secrets.
type account struct {
	models.User
	PasswordHash []byte
	ResetToken   string
}

type otpCode struct {
	code    string
	expires time.Time
}

type failure struct {
	status  int
	message string
}

// Server holds the backend state.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	router   *mux.Router
	users    []*account
	products []models.Product
	orders   []models.Order
	otps     map[string]otpCode
	hits     map[string]int
	failures map[string]failure
	Mailer   *Mailer
	now      func() time.Time
}

// NewServer returns an empty backend signing tokens with secret.
func NewServer(secret string) *Server {
	s := &Server{
		secret:   []byte(secret),
		otps:     make(map[string]otpCode),
		hits:     make(map[string]int),
		failures: make(map[string]failure),
		Mailer:   &Mailer{},
		now:      time.Now,
	}
	s.router = mux.NewRouter()
	s.registerRoutes(s.router.PathPrefix("/api").Subrouter())
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the backend on a local test listener. Callers close it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.router)
}

func (s *Server) registerRoutes(r *mux.Router) {
	r.Use(s.countHits, s.injectFailures)

	// Public routes
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/google", s.googleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/send-otp", s.sendOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/login-otp", s.loginOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/reset-password/{token}", s.resetPassword).Methods(http.MethodPut)
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)

	// Signed-in routes
	protected := r.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/orders/myorders", s.myOrders).Methods(http.MethodGet)
	protected.HandleFunc("/orders", s.createOrder).Methods(http.MethodPost)

	// Admin routes
	admin := r.NewRoute().Subrouter()
	admin.Use(s.authMiddleware, s.adminMiddleware)
	admin.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", s.updateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", s.deleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/orders", s.listOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}/status", s.updateOrderStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id}/logistics", s.assignLogistics).Methods(http.MethodPut)
	admin.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/role", s.updateUserRole).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", s.deleteUser).Methods(http.MethodDelete)
}

func routeKey(r *http.Request) string {
	tmpl := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if t, err := route.GetPathTemplate(); err == nil {
			tmpl = t
		}
	}
	return r.Method + " " + strings.TrimPrefix(tmpl, "/api")
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[routeKey(r)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)
		s.mu.Lock()
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()
		if ok {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeMessage(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware verifies the bearer token and attaches the account to the context
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}
		claims, err := utils.VerifyJWT(s.secret, parts[1])
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		s.mu.Lock()
		acct := s.findUser(id)
		var user models.User
		if acct != nil {
			user = acct.User
		}
		s.mu.Unlock()
		if acct == nil {
			writeMessage(w, http.StatusUnauthorized, "User not found")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware ensures that the user has admin privileges
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(userContextKey).(models.User)
		if !ok || user.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) models.User {
	user, _ := r.Context().Value(userContextKey).(models.User)
	return user
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// Seeding and inspection helpers for tests.

// AddUser stores an account and returns it.
func (s *Server) AddUser(name, email, password string, role models.Role) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := &account{
		User:         models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: role},
		PasswordHash: hash,
	}
	s.users = append(s.users, acct)
	return acct.User
}

// SetPhone attaches a phone number to a user for OTP sign-in.
func (s *Server) SetPhone(id primitive.ObjectID, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct := s.findUser(id); acct != nil {
		acct.PhoneNumber = phone
	}
}

// AddProduct stores a product, assigning an id when it has none.
func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products = append(s.products, p)
	return p
}

// Token mints a valid credential for a stored user.
func (s *Server) Token(u models.User) string {
	token, err := s.issueToken(u)
	if err != nil {
		panic(err)
	}
	return token
}

// Hits reports how many requests reached "METHOD /route/{template}".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits reports how many requests reached the server at all.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

// FailNext makes the next request to route fail with status and message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// LastOTP returns the code most recently sent to phone.
func (s *Server) LastOTP(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otps[phone].code
}

// Products returns a copy of the catalogue.
func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// Orders returns a copy of all orders.
func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// Users returns a copy of all users.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, a := range s.users {
		out = append(out, a.User)
	}
	return out
}

func (s *Server) findUser(id primitive.ObjectID) *account {
	for _, a := range s.users {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) findUserBy(match func(*account) bool) *account {
	for _, a := range s.users {
		if match(a) {
			return a
		}
	}
	return nil
}

func (s *Server) issueToken(u models.User) (string, error) {
	return utils.GenerateJWT(s.secret, utils.Claims{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Role:         string(u.Role),
		ProfileImage: u.ProfileImage,
	}, 30*24*time.Hour)
}
