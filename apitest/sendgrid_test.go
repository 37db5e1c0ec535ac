package apitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go-oms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendGridStub struct {
	mu       sync.Mutex
	status   int
	auth     []string
	payloads []string
}

func newSendGridStub(t *testing.T, status int) (*sendGridStub, string) {
	t.Helper()
	stub := &sendGridStub{status: status}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		if r.Method == http.MethodPost && r.URL.Path == "/v3/mail/send" {
			stub.auth = append(stub.auth, r.Header.Get("Authorization"))
			stub.payloads = append(stub.payloads, string(body))
		}
		stub.mu.Unlock()
		w.WriteHeader(stub.status)
	}))
	t.Cleanup(ts.Close)
	return stub, ts.URL
}

func (s *sendGridStub) received() (auth, payloads []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auth...), append([]string(nil), s.payloads...)
}

func TestPasswordResetDeliveredThroughSendGrid(t *testing.T) {
	stub, host := newSendGridStub(t, http.StatusAccepted)
	s := NewServer("secret")
	s.Mailer.SendGrid = NewSendGrid("sg-key", "shop@example.com", host)
	s.AddUser("Carol", "carol@example.com", "carolpass", models.RoleCustomer)

	rec := do(t, s, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "carol@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, s.Mailer.Outbox(), 1)
	auth, payloads := stub.received()
	require.Len(t, payloads, 1)
	assert.Equal(t, "Bearer sg-key", auth[0])
	assert.Contains(t, payloads[0], "carol@example.com")
	assert.Contains(t, payloads[0], "shop@example.com")
	assert.Contains(t, payloads[0], "Password Reset Request")
	assert.Contains(t, payloads[0], s.Mailer.Outbox()[0].Token)
}

func TestSendGridRejectionIsAnError(t *testing.T) {
	_, host := newSendGridStub(t, http.StatusUnauthorized)
	sg := NewSendGrid("bad-key", "shop@example.com", host)

	err := sg.Send(Mail{To: "carol@example.com", Subject: "Hi", Body: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridFromEnv(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	assert.Nil(t, SendGridFromEnv())

	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("EMAIL_SENDER", "shop@example.com")
	sg := SendGridFromEnv()
	require.NotNil(t, sg)
	assert.Equal(t, "shop@example.com", sg.from.Address)
}

func TestMailerWithoutSendGridOnlyRecords(t *testing.T) {
	m := &Mailer{}
	m.SendPasswordReset("carol@example.com", "tok")
	out := m.Outbox()
	require.Len(t, out, 1)
	assert.Equal(t, "tok", out[0].Token)
}
