package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"skibazar/internal/platform/config"
	"skibazar/internal/platform/metrics"
)

type stubNotifier struct {
	err  error
	sent int
}

func (s *stubNotifier) Send(_ context.Context, _ *gomail.Msg) error {
	s.sent++
	return s.err
}

func newTestMailer(t *testing.T, notifier Notifier) (*Mailer, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	return NewMailer(newTestComposer(t), notifier, logger, m), m
}

func TestMailerSendConfirmation(t *testing.T) {
	notifier := &stubNotifier{}
	mailer, m := newTestMailer(t, notifier)

	err := mailer.SendConfirmation(context.Background(), testRegistration())
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.sent)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ConfirmationsSent))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ConfirmationsFailed))
}

func TestMailerCountsDeliveryFailure(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("connection refused")}
	mailer, m := newTestMailer(t, notifier)

	err := mailer.SendConfirmation(context.Background(), testRegistration())
	require.Error(t, err)
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ConfirmationsSent))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ConfirmationsFailed))
}

func TestMailerCountsComposeFailure(t *testing.T) {
	notifier := &stubNotifier{}
	mailer, m := newTestMailer(t, notifier)

	reg := testRegistration()
	reg.Email = "not-an-address"

	err := mailer.SendConfirmation(context.Background(), reg)
	require.Error(t, err)
	assert.Equal(t, 0, notifier.sent, "composer failure must not reach the wire")
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ConfirmationsFailed))
}

func TestSMTPSendRequiresHost(t *testing.T) {
	notifier := NewSMTPNotifier(config.SMTP{}, time.Second)
	msg, err := newTestComposer(t).Compose(testRegistration())
	require.NoError(t, err)

	err = notifier.Send(context.Background(), msg)
	assert.Error(t, err)
}
