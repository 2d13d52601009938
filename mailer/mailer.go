package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	mail "github.com/wneessen/go-mail"

	"bitefactory-backend/config"
	"bitefactory-backend/invoice"
	"bitefactory-backend/models"
)

// Outcome classifies what happened to one notification job. Transport
// trouble is never surfaced to the order-creation caller; it is visible
// only through these results and the fallback log.
type Outcome string

const (
	OutcomeDelivered      Outcome = "delivered"
	OutcomeFellBackToLog  Outcome = "fell_back_to_log"
	OutcomeTransportError Outcome = "transport_error"
)

// Job is one recipient-specific send task. It lives only for the duration
// of a dispatch attempt.
type Job struct {
	To       string
	Subject  string
	Body     string
	Artifact *invoice.Artifact
}

type JobResult struct {
	Recipient string
	Subject   string
	Outcome   Outcome
	Detail    string
}

type sendFunc func(ctx context.Context, job Job) error

type Mailer struct {
	cfg  *config.Config
	log  *slog.Logger
	send sendFunc
}

func New(cfg *config.Config, log *slog.Logger) *Mailer {
	m := &Mailer{cfg: cfg, log: log}
	m.send = m.smtpSend
	return m
}

// Dispatch builds the restaurant and customer copies for an order and
// submits them independently. One copy failing never blocks the other, and
// Dispatch itself never fails the caller.
func (m *Mailer) Dispatch(ctx context.Context, order models.Order, artifact *invoice.Artifact) []JobResult {
	jobs := []Job{
		m.restaurantJob(order, artifact),
		m.customerJob(order, artifact),
	}
	results := make([]JobResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, m.sendEmail(ctx, job))
	}
	return results
}

func (m *Mailer) sendEmail(ctx context.Context, job Job) JobResult {
	result := JobResult{Recipient: job.To, Subject: job.Subject}

	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" {
		m.logFallback(job, "smtp transport not configured")
		result.Outcome = OutcomeFellBackToLog
		return result
	}

	if err := m.send(ctx, job); err != nil {
		m.logFallback(job, err.Error())
		result.Outcome = OutcomeTransportError
		result.Detail = err.Error()
		return result
	}

	m.log.Info("notification delivered", "to", job.To, "subject", job.Subject)
	result.Outcome = OutcomeDelivered
	return result
}

func (m *Mailer) smtpSend(ctx context.Context, job Job) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.SMTPUser),
		mail.WithPassword(m.cfg.SMTPPass),
		mail.WithTimeout(30 * time.Second),
	}
	if m.cfg.SMTPSecure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.RestaurantName, m.cfg.SMTPUser); err != nil {
		return err
	}
	if err := msg.To(job.To); err != nil {
		return err
	}
	msg.Subject(job.Subject)
	msg.SetBodyString(mail.TypeTextHTML, job.Body)
	if job.Artifact != nil {
		msg.AttachReader(job.Artifact.Filename, bytes.NewReader(job.Artifact.Buffer),
			mail.WithFileContentType(mail.ContentType(job.Artifact.ContentType)))
	}

	return client.DialAndSendWithContext(ctx, msg)
}

// logFallback is the local sink: the would-be envelope and attachment
// manifest go to the operational log so every notification attempt leaves
// an auditable trace even without a transport.
func (m *Mailer) logFallback(job Job, reason string) {
	attrs := []any{
		"reason", reason,
		"from", m.cfg.SMTPUser,
		"to", job.To,
		"subject", job.Subject,
		"body_bytes", len(job.Body),
	}
	if job.Artifact != nil {
		attrs = append(attrs,
			"attachment", job.Artifact.Filename,
			"attachment_type", job.Artifact.ContentType,
			"attachment_bytes", len(job.Artifact.Buffer),
		)
	}
	m.log.Warn("notification routed to log sink", attrs...)
}
