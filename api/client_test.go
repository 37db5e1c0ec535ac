package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-oms/api"
	"go-oms/apitest"
	"go-oms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type tokenVar struct{ token string }

func (t *tokenVar) Token() string { return t.token }

type fixture struct {
	backend  *apitest.Server
	admin    models.User
	customer models.User
	tokens   *tokenVar
	client   *api.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.NewServer("secret")
	ts := backend.Start()
	t.Cleanup(ts.Close)

	f := &fixture{
		backend:  backend,
		admin:    backend.AddUser("Root", "root@example.com", "rootpass", models.RoleAdmin),
		customer: backend.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer),
		tokens:   &tokenVar{},
	}
	f.client = api.New(ts.URL+"/api", f.tokens)
	return f
}

func (f *fixture) as(u models.User) {
	f.tokens.token = f.backend.Token(u)
}

func TestLoginReturnsToken(t *testing.T) {
	f := newFixture(t)
	resp, err := f.client.Login(context.Background(), "carol@example.com", "carolpass")
	require.NoError(t, err)
	assert.Equal(t, "Carol", resp.Name)
	assert.Equal(t, models.RoleCustomer, resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestServerMessageIsSurfaced(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Login(context.Background(), "carol@example.com", "wrong")
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, "Invalid credentials", api.MessageOr(err, "fallback"))
}

func TestMessageOrFallsBack(t *testing.T) {
	f := newFixture(t)
	f.backend.FailNext("GET /products", http.StatusBadGateway, "")
	_, err := f.client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "fallback", api.MessageOr(err, "fallback"))
	assert.Equal(t, "fallback", api.MessageOr(errors.New("dial tcp: refused"), "fallback"))
}

func TestBearerIsAttachedToProtectedCalls(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.ListUsers(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	f.as(f.customer)
	_, err = f.client.ListUsers(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	f.as(f.admin)
	users, err := f.client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestProductLifecycleMultipart(t *testing.T) {
	f := newFixture(t)
	f.as(f.admin)
	ctx := context.Background()

	err := f.client.CreateProduct(ctx, api.ProductInput{
		Name:         "Lamp",
		Description:  "Desk lamp",
		Price:        19.99,
		CountInStock: 4,
		Image:        &api.Upload{Filename: "lamp.png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
	require.NoError(t, err)

	products, err := f.client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, 19.99, p.Price)
	assert.Equal(t, 4, p.CountInStock)
	assert.Contains(t, p.ImageURL, "lamp.png")

	require.NoError(t, f.client.UpdateProduct(ctx, p.ID, api.ProductInput{Name: "Lamp v2", Description: "Desk lamp", Price: 25, CountInStock: 0}))
	products, err = f.client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lamp v2", products[0].Name)
	assert.False(t, products[0].InStock())
	assert.Equal(t, p.ImageURL, products[0].ImageURL)

	require.NoError(t, f.client.DeleteProduct(ctx, p.ID))
	products, err = f.client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOrderFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boy := f.backend.AddUser("Dan", "dan@example.com", "danpass", models.RoleDeliveryBoy)
	p := f.backend.AddProduct(models.Product{Name: "Tea", Price: 4, CountInStock: 3})

	f.as(f.customer)
	cart := models.NewCart()
	cart.Add(p)
	cart.Add(p)
	created, err := f.client.CreateOrder(ctx, cart.Order())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, 8.0, created.TotalPrice)

	mine, err := f.client.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, f.backend.Products()[0].CountInStock)

	f.as(f.admin)
	require.NoError(t, f.client.AssignLogistics(ctx, created.ID, "North", boy.ID))
	require.NoError(t, f.client.UpdateOrderStatus(ctx, created.ID, models.StatusOutForDelivery))

	all, err := f.client.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusOutForDelivery, all[0].Status)
	assert.Equal(t, "North", all[0].Warehouse)
	require.NotNil(t, all[0].DeliveryBoy)
	assert.Equal(t, boy.ID, all[0].DeliveryBoy.ID)
	assert.Equal(t, "Carol", all[0].User.Name)
}

func TestUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boy := f.backend.AddUser("Dan", "dan@example.com", "danpass", models.RoleDeliveryBoy)
	f.as(f.admin)

	require.NoError(t, f.client.UpdateUserRole(ctx, boy.ID, models.RoleAdmin))
	users, err := f.client.ListUsers(ctx)
	require.NoError(t, err)
	u, ok := models.FindUser(users, boy.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, u.Role)

	require.NoError(t, f.client.DeleteUser(ctx, boy.ID))
	users, err = f.client.ListUsers(ctx)
	require.NoError(t, err)
	_, ok = models.FindUser(users, boy.ID)
	assert.False(t, ok)
}

func TestRegisterAndPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.client.Register(ctx, api.Registration{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: models.RoleCustomer,
		PhoneNumber: "555-0100", Location: "Lagos",
		ProfileImage: &api.Upload{Filename: "me.jpg", Data: []byte("jpg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Eve", resp.Name)

	_, err = f.client.Register(ctx, api.Registration{Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: models.RoleCustomer})
	assert.Equal(t, "User already exists", api.MessageOr(err, ""))

	require.NoError(t, f.client.ForgotPassword(ctx, "eve@example.com"))
	outbox := f.backend.Mailer.Outbox()
	require.Len(t, outbox, 1)
	require.NoError(t, f.client.ResetPassword(ctx, outbox[0].Token, "newsecret"))

	_, err = f.client.Login(ctx, "eve@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestOTPLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.backend.SetPhone(f.customer.ID, "555-0199")

	require.NoError(t, f.client.SendOTP(ctx, "555-0199"))
	_, err := f.client.LoginOTP(ctx, "555-0199", "nope")
	assert.Equal(t, "Invalid or expired OTP", api.MessageOr(err, ""))

	require.NoError(t, f.client.SendOTP(ctx, "555-0199"))
	resp, err := f.client.LoginOTP(ctx, "555-0199", f.backend.LastOTP("555-0199"))
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, resp.ID)
}
