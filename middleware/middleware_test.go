package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-oms/models"
	"go-oms/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTransportAttachesCredential(t *testing.T) {
	var gotAuth, gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &BearerTransport{Tokens: staticToken("tok")}}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Len(t, gotID, 36)
	assert.Empty(t, req.Header.Get("Authorization"), "caller request must stay untouched")
}

func TestBearerTransportSignedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &BearerTransport{Tokens: staticToken("")}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotAuth)
}

func TestGuardMatrix(t *testing.T) {
	dashboard := RequireRoles(models.RoleCustomer, models.RoleAdmin, models.RoleDeliveryBoy)
	admin := RequireRoles(models.RoleAdmin)

	cases := []struct {
		name     string
		guard    Guard
		role     models.Role
		signedIn bool
		allow    bool
	}{
		{"customer dashboard", dashboard, models.RoleCustomer, true, true},
		{"delivery dashboard", dashboard, models.RoleDeliveryBoy, true, true},
		{"admin dashboard", dashboard, models.RoleAdmin, true, true},
		{"customer admin", admin, models.RoleCustomer, true, false},
		{"delivery admin", admin, models.RoleDeliveryBoy, true, false},
		{"admin admin", admin, models.RoleAdmin, true, true},
		{"anonymous dashboard", dashboard, "", false, false},
		{"anonymous admin", admin, "", false, false},
		{"unknown role", dashboard, models.Role("root"), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.guard.Check(session.Session{Role: tc.role}, tc.signedIn)
			assert.Equal(t, tc.allow, d.Allow)
			if !tc.allow {
				assert.Equal(t, session.EntryRoute, d.Redirect)
			} else {
				assert.Empty(t, d.Redirect)
			}
		})
	}
}
