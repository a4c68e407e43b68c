package worker

// email_worker.go
// Processes email jobs from QueueEmail: reads the rendered order PDF from
// disk and mails it to the client through the SMTP breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"taller/internal/infra"

	"github.com/rs/zerolog/log"
)

// MaxEmailAttempts is how many times a job is tried before it goes to the DLQ.
const MaxEmailAttempts = 5

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail     string `json:"to_email"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	PDFPath     string `json:"pdf_path"`
	NumeroOrden string `json:"numero_orden"`
}

// Sender delivers one email. *infra.Mailer satisfies it.
type Sender interface {
	SendOrden(to, subject, body string, adjunto *infra.Adjunto) error
}

// EmailWorker sends order PDFs to customer emails via SMTP.
type EmailWorker struct {
	sender  Sender
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(sender Sender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker}
}

// Process sends an email with the order PDF as attachment.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &PermanentError{Err: fmt.Errorf("email_worker: invalid payload: %w", err)}
	}
	if payload.ToEmail == "" {
		return &PermanentError{Err: errors.New("email_worker: empty to_email")}
	}

	var adjunto *infra.Adjunto
	if payload.PDFPath != "" {
		contenido, err := os.ReadFile(payload.PDFPath)
		if err != nil {
			return &PermanentError{Err: fmt.Errorf("email_worker: read pdf: %w", err)}
		}
		adjunto = &infra.Adjunto{Nombre: filepath.Base(payload.PDFPath), Contenido: contenido}
	}

	err := w.breaker.Execute(func() error {
		return w.sender.SendOrden(payload.ToEmail, payload.Subject, payload.Body, adjunto)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Str("numero_orden", payload.NumeroOrden).
			Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("numero_orden", payload.NumeroOrden).
		Msg("email_worker: orden sent successfully")
	return nil
}
