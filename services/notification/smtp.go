package notification

import (
	"fmt"
	"net/smtp"

	"clinicore/config"
	"clinicore/models"
)

// SMTPSender pushes a single email over plain SMTP. The asynq worker uses it
// to drain the queue; EmailService falls back to it when no queue is wired.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender builds the sender from loaded configuration.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		addr: config.AppConfig.SMTPHost + ":" + config.AppConfig.SMTPPort,
		from: config.AppConfig.SMTPFrom,
	}
}

// Send delivers one email synchronously.
func (s *SMTPSender) Send(payload models.EmailPayload) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		s.from, payload.To, payload.Subject, payload.Body))

	if err := smtp.SendMail(s.addr, nil, s.from, []string{payload.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", payload.To, err)
	}
	return nil
}
