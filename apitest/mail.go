package apitest

import (
	"fmt"
	"sync"

	"go-oms/routes"

	"go.uber.org/zap"
)

// Mail is a message the backend would have delivered.
type Mail struct {
	To      string
	Subject string
	Body    string
	// Token is the reset token carried by password reset mails.
	Token string
}

// Mailer records outgoing mail in an outbox. When SendGrid is set each message
// is also delivered through it; when Logger is set each message is logged,
// which is how the mock server "delivers" it otherwise.
type Mailer struct {
	Logger   *zap.Logger
	SendGrid *SendGrid

	mu     sync.Mutex
	outbox []Mail
}

// SendPasswordReset queues a reset link for toEmail.
func (m *Mailer) SendPasswordReset(toEmail, resetToken string) {
	link := routes.ResetPath(resetToken)
	m.send(Mail{
		To:      toEmail,
		Subject: "Password Reset Request",
		Body:    fmt.Sprintf("You requested a password reset. Open %s to choose a new password.", link),
		Token:   resetToken,
	})
}

func (m *Mailer) send(mail Mail) {
	m.mu.Lock()
	m.outbox = append(m.outbox, mail)
	m.mu.Unlock()

	if m.SendGrid != nil {
		if err := m.SendGrid.Send(mail); err != nil {
			if m.Logger != nil {
				m.Logger.Warn("mail delivery failed", zap.String("to", mail.To), zap.Error(err))
			}
			return
		}
	}
	if m.Logger != nil {
		m.Logger.Info("mail sent",
			zap.String("to", mail.To),
			zap.String("subject", mail.Subject),
			zap.String("body", mail.Body),
			zap.Bool("sendgrid", m.SendGrid != nil))
	}
}

// Outbox returns every message sent so far.
func (m *Mailer) Outbox() []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mail(nil), m.outbox...)
}
