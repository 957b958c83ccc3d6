package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/ostryk/contactio/internal/core/ports"
)

type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender builds a confirmation-mail sender over plain SMTP. Username
// may be empty for servers that accept unauthenticated relay (e.g. mailhog in
// development).
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, to, username, confirmURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
		"Hi %s,\r\n\r\nFollow the link below to confirm your email address:\r\n\r\n%s\r\n",
		s.from, to, username, confirmURL)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// LogSender writes the confirmation link to the process log instead of
// sending mail. Used when no SMTP host is configured.
type LogSender struct{}

func (LogSender) SendConfirmation(_ context.Context, to, username, confirmURL string) error {
	log.Printf("confirmation email for %s (%s): %s", username, to, confirmURL)
	return nil
}

var (
	_ ports.EmailSender = (*SMTPSender)(nil)
	_ ports.EmailSender = LogSender{}
)
