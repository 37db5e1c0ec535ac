package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-oms/apitest"
	"go-oms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	backend   *apitest.Server
	tokenFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	backend := apitest.NewServer("secret")
	ts := backend.Start()
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	env := &cliEnv{backend: backend, tokenFile: filepath.Join(dir, "token")}
	t.Setenv("OMS_CONFIG", "")
	t.Setenv("OMS_API_URL", ts.URL+"/api")
	t.Setenv("OMS_TOKEN_FILE", env.tokenFile)
	t.Setenv("OMS_LOG_FILE", filepath.Join(dir, "oms.log"))
	t.Setenv("OMS_TRACING", "off")
	return env
}

func (e *cliEnv) signIn(t *testing.T, u models.User) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.tokenFile, []byte(e.backend.Token(u)), 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWhoamiReadsTokenFile(t *testing.T) {
	env := newCLIEnv(t)
	admin := env.backend.AddUser("Root", "root@example.com", "rootpass", models.RoleAdmin)
	env.signIn(t, admin)

	out, err := execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Root")
	assert.Contains(t, out, admin.ID.Hex())
	assert.Contains(t, out, "role: Admin")
	assert.Equal(t, env.tokenFile, cfg.TokenFile)
}

func TestWhoamiSignedOut(t *testing.T) {
	newCLIEnv(t)

	_, err := execute(t, "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestProductsListsCatalogue(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.AddProduct(models.Product{Name: "Widget", Price: 10, CountInStock: 5})
	env.backend.AddProduct(models.Product{Name: "Sold Out", Price: 1})

	out, err := execute(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "Out of Stock")
	assert.Equal(t, 1, env.backend.Hits("GET /products"))
}

func TestOrdersUsesRoleScopedListing(t *testing.T) {
	env := newCLIEnv(t)
	customer := env.backend.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer)
	env.signIn(t, customer)

	_, err := execute(t, "orders")
	require.NoError(t, err)
	assert.Equal(t, 1, env.backend.Hits("GET /orders/myorders"))
	assert.Zero(t, env.backend.Hits("GET /orders"))
}

func TestLogoutClearsTokenFile(t *testing.T) {
	env := newCLIEnv(t)
	env.signIn(t, env.backend.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer))

	out, err := execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out successfully")
	assert.NoFileExists(t, env.tokenFile)
}
