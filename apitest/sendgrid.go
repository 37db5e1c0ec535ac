package apitest

import (
	"fmt"
	"os"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	request rest.Request
	from    *mail.Email
}

// NewSendGrid builds a SendGrid sender. An empty host means the public API.
func NewSendGrid(apiKey, from, host string) *SendGrid {
	request := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	request.Method = rest.Post
	return &SendGrid{
		request: request,
		from:    mail.NewEmail("Order Management", from),
	}
}

// SendGridFromEnv returns a sender configured from SENDGRID_API_KEY and
// EMAIL_SENDER, or nil when no API key is set.
func SendGridFromEnv() *SendGrid {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil
	}
	from := os.Getenv("EMAIL_SENDER")
	if from == "" {
		from = "no-reply@example.com"
	}
	return NewSendGrid(apiKey, from, "")
}

// Send delivers one message. Each call gets its own client since the client
// carries the request body.
func (s *SendGrid) Send(m Mail) error {
	client := &sendgrid.Client{Request: s.request}
	message := mail.NewSingleEmailPlainText(s.from, m.Subject, mail.NewEmail("", m.To), m.Body)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
