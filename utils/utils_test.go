package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClaimsRoundTrip(t *testing.T) {
	token, err := GenerateJWT([]byte("secret"), Claims{ID: "65f0c0ffee0000000000abcd", Name: "Ada", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "admin", claims.Role)

	verified, err := VerifyJWT([]byte("secret"), token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, verified.ID)

	_, err = VerifyJWT([]byte("other"), token)
	assert.Error(t, err)
}

func TestDecodeClaimsIgnoresExpiry(t *testing.T) {
	token, err := GenerateJWT([]byte("secret"), Claims{ID: "65f0c0ffee0000000000abcd", Role: "customer"}, -time.Hour)
	require.NoError(t, err)
	_, err = DecodeClaims(token)
	assert.NoError(t, err)
}

func TestDecodeClaimsRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := DecodeClaims(tok)
		assert.True(t, errors.Is(err, ErrMalformedToken), tok)
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.d"))
	assert.True(t, Blank("  "))

	p, err := ParsePrice("12.50")
	require.NoError(t, err)
	assert.Equal(t, 12.5, p)
	_, err = ParsePrice("-1")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	n, err := ParseStock("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	_, err = ParseStock("1.5")
	assert.Error(t, err)
	_, err = ParsePrice("NaN")
	assert.Error(t, err)
}

func TestCheckReportsFirstFailingField(t *testing.T) {
	type form struct {
		Name  string `validate:"notblank"`
		Email string `validate:"notblank,email"`
		Qty   int    `validate:"gte=1"`
	}
	messages := Messages{
		"Name":           "name missing",
		"Email.notblank": "email missing",
		"Email.email":    "email malformed",
	}

	err := Check(form{Name: " ", Email: "x"}, messages)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name missing", verr.Message)

	assert.EqualError(t, Check(form{Name: "n", Email: "  "}, messages), "email missing")
	assert.EqualError(t, Check(form{Name: "n", Email: "nope"}, messages), "email malformed")

	err = Check(form{Name: "n", Email: "a@b.co"}, messages)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Qty")

	assert.NoError(t, Check(form{Name: "n", Email: "a@b.co", Qty: 2}, messages))
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://yaml/api\nlog_level: debug\nhttp_timeout: 5s\n"), 0o600))

	t.Setenv("OMS_CONFIG", path)
	t.Setenv("OMS_API_URL", "http://env/api")
	t.Setenv("OMS_TOKEN_FILE", filepath.Join(dir, "token"))

	cfg, _, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://localhost:5000", cfg.AssetURL)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenFile)
}

func TestLoadConfigBadTimeout(t *testing.T) {
	t.Setenv("OMS_HTTP_TIMEOUT", "soon")
	_, _, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("info", "")
	require.NoError(t, err)
	l.Info("discarded")

	_, err = NewLogger("loud", "stderr")
	assert.Error(t, err)
}
