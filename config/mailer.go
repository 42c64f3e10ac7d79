package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends notification email over SMTP. It satisfies
// services.EmailSender; a nil *Mailer means email is disabled.
type Mailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

// NewMailerFromEnv builds a mailer from SMTP_* env vars, or nil when SMTP is
// not configured.
func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("SMTP_FROM") // e.g. "Subsidy CRM <no-reply@your.org>"
	if host == "" || from == "" {
		return nil
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	return &Mailer{
		host:          host,
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          from,
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// Send delivers one message with mandatory STARTTLS (Gmail/Office365 friendly).
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify, // dev only: set SMTP_SKIP_TLS_VERIFY=1
	}

	return d.DialAndSend(msg)
}
