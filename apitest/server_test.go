package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-oms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestCreateOrderChecksAndDecrementsStock(t *testing.T) {
	s := NewServer("secret")
	u := s.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer)
	p := s.AddProduct(models.Product{Name: "Widget", Price: 10, CountInStock: 2})
	token := s.Token(u)

	order := models.NewOrder{Items: []models.OrderItem{{Product: p.ID, Name: "Widget", Qty: 3, Price: 10}}, TotalPrice: 30}
	rec := do(t, s, http.MethodPost, "/orders", token, order)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock for product: Widget", message(t, rec))
	assert.Equal(t, 2, s.Products()[0].CountInStock)

	order.Items[0].Qty, order.TotalPrice = 2, 20
	rec = do(t, s, http.MethodPost, "/orders", token, order)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, s.Products()[0].CountInStock)
	require.Len(t, s.Orders(), 1)
	assert.Equal(t, models.StatusPending, s.Orders()[0].Status)
	assert.Equal(t, u.ID, s.Orders()[0].User.ID)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := NewServer("secret")
	cust := s.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer)

	rec := do(t, s, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/users", s.Token(cust), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized as an admin", message(t, rec))

	rec = do(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	// rejected requests still count
	assert.Equal(t, 2, s.Hits("GET /users"))
}

func TestFailNextAppliesOnce(t *testing.T) {
	s := NewServer("secret")
	s.FailNext("GET /products", http.StatusServiceUnavailable, "maintenance")

	rec := do(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "maintenance", message(t, rec))

	rec = do(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, s.Hits("GET /products"))
}

func TestStatusLockedAfterDelivery(t *testing.T) {
	s := NewServer("secret")
	admin := s.AddUser("Root", "root@example.com", "rootpass", models.RoleAdmin)
	s.orders = append(s.orders, models.Order{ID: newID(), Status: models.StatusDelivered})

	rec := do(t, s, http.MethodPut, "/orders/"+s.orders[0].ID.Hex()+"/status", s.Token(admin),
		map[string]string{"status": string(models.StatusCancelled)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order is already Delivered", message(t, rec))
}

func TestPasswordResetMail(t *testing.T) {
	s := NewServer("secret")
	s.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer)

	rec := do(t, s, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "Carol@Example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	mail := s.Mailer.Outbox()
	require.Len(t, mail, 1)
	assert.Contains(t, mail[0].Body, "/reset-password/"+mail[0].Token)

	rec = do(t, s, http.MethodPut, "/auth/reset-password/"+mail[0].Token, "", map[string]string{"password": "fresh1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPut, "/auth/reset-password/"+mail[0].Token, "", map[string]string{"password": "fresh2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
