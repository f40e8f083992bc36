package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"skibazar/internal/platform/config"
	"skibazar/internal/platform/metrics"
	"skibazar/internal/registration/models"
)

// Notifier delivers a composed message.
type Notifier interface {
	Send(ctx context.Context, msg *gomail.Msg) error
}

// SMTPNotifier submits messages over implicit TLS with SMTP AUTH. Each Send
// dials a fresh connection and closes it again, success or not.
type SMTPNotifier struct {
	cfg     config.SMTP
	timeout time.Duration
}

func NewSMTPNotifier(cfg config.SMTP, timeout time.Duration) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, timeout: timeout}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg *gomail.Msg) error {
	client, err := gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
		gomail.WithTimeout(n.timeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	// DialAndSend closes the connection in all outcomes.
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Mailer ties the composer and notifier together behind the single
// operation the registration service needs. Failures are reported to the
// caller, which absorbs them: a lost confirmation never fails a request.
type Mailer struct {
	composer *Composer
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewMailer(composer *Composer, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Mailer {
	return &Mailer{composer: composer, notifier: notifier, logger: logger, metrics: m}
}

// SendConfirmation composes and submits the confirmation for reg.
func (m *Mailer) SendConfirmation(ctx context.Context, reg *models.Registration) error {
	msg, err := m.composer.Compose(reg)
	if err != nil {
		m.metrics.IncrementConfirmationsFailed()
		return fmt.Errorf("compose confirmation: %w", err)
	}
	if err := m.notifier.Send(ctx, msg); err != nil {
		m.metrics.IncrementConfirmationsFailed()
		return err
	}
	m.metrics.IncrementConfirmationsSent()
	m.logger.InfoContext(ctx, "confirmation mail sent", "recipient", reg.Email)
	return nil
}
