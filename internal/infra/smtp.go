package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"taller/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends order documents over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPUser
	if cfg.NegocioEmail != "" {
		from = fmt.Sprintf("%s <%s>", cfg.NegocioNombre, cfg.NegocioEmail)
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     from,
	}
}

// Adjunto is an in-memory attachment.
type Adjunto struct {
	Nombre    string
	Contenido []byte
}

// SendOrden emails a rendered order document to the client.
func (m *Mailer) SendOrden(to, subject, body string, adjunto *Adjunto) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if adjunto != nil {
		if _, err := e.Attach(bytes.NewReader(adjunto.Contenido), adjunto.Nombre, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
