package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

// confirmationPayload matches the JSON enqueued by TaskEnqueuer.EnqueueSendConfirmationEmail.
type confirmationPayload struct {
	Email      string `json:"email"`
	ConfirmURL string `json:"confirm_url"`
}

// webhookPayload matches the JSON enqueued by TaskEnqueuer.EnqueueWebhook.
type webhookPayload struct {
	Event   string           `json:"event"`
	Payload ports.AuditEvent `json:"payload"`
}

// SMTPConfig configures outgoing mail. An empty Host means log-only delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Worker runs Asynq task handlers (send confirmation email, deliver
// webhooks). emitter performs the webhook HTTP delivery; nil means webhook
// tasks are logged and dropped.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	smtp    SMTPConfig
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, smtpCfg SMTPConfig, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, smtp: smtpCfg, emitter: emitter, log: log}
	mux.HandleFunc(TypeSendConfirmationEmail, w.handleSendConfirmationEmail)
	mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

func (w *Worker) handleSendConfirmationEmail(ctx context.Context, t *asynq.Task) error {
	var p confirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("confirmation email task payload invalid")
		return err
	}
	if w.smtp.Host == "" {
		w.log.Info().
			Str("email", p.Email).
			Str("confirm_url", p.ConfirmURL).
			Msg("confirmation email (log only; configure SMTP for real email)")
		return nil
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\n\r\nFollow this link to confirm your email address: %s\r\n",
		w.smtp.From, p.Email, p.ConfirmURL)
	addr := fmt.Sprintf("%s:%d", w.smtp.Host, w.smtp.Port)
	var auth smtp.Auth
	if w.smtp.Username != "" {
		auth = smtp.PlainAuth("", w.smtp.Username, w.smtp.Password, w.smtp.Host)
	}
	if err := smtp.SendMail(addr, auth, w.smtp.From, []string{p.Email}, []byte(msg)); err != nil {
		w.log.Error().Err(err).Str("email", p.Email).Msg("send confirmation email failed")
		return err
	}
	return nil
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	var p webhookPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("webhook task payload invalid")
		return err
	}
	if w.emitter == nil {
		w.log.Info().Str("event", p.Event).Msg("webhook event (log only; no endpoint configured)")
		return nil
	}
	if err := w.emitter.Emit(ctx, p.Payload); err != nil {
		w.log.Error().Err(err).Str("event", p.Event).Msg("deliver webhook failed")
		return err
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
