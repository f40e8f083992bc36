// Package service orchestrates the registration lifecycle: identifier
// issuance, persistence, and the detached confirmation-mail side effect.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"skibazar/internal/platform/metrics"
	"skibazar/internal/registration/models"
	dErrors "skibazar/pkg/domain-errors"
	"skibazar/pkg/platform/sentinel"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.Registration, error)
	Replace(ctx context.Context, reg *models.Registration) error
	ListAll(ctx context.Context) ([]*models.Registration, error)
}

// ConfirmationSender delivers the confirmation mail for a registration.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, reg *models.Registration) error
}

// Service keeps orchestration out of handlers and domain logic thin.
type Service struct {
	store       Store
	mailer      ConfirmationSender
	logger      *slog.Logger
	metrics     *metrics.Metrics
	mailTimeout time.Duration
}

// New creates a registration service. mailer may be nil, in which case no
// confirmation mails are sent.
func New(store Store, mailer ConfirmationSender, logger *slog.Logger, m *metrics.Metrics, mailTimeout time.Duration) *Service {
	return &Service{
		store:       store,
		mailer:      mailer,
		logger:      logger,
		metrics:     m,
		mailTimeout: mailTimeout,
	}
}

// Create assigns a fresh identifier, persists the registration atomically
// and kicks off the confirmation mail as a detached task. The identifier is
// returned as soon as the store commit succeeds; mail delivery never gates
// the outcome.
func (s *Service) Create(ctx context.Context, reg *models.Registration) (string, error) {
	reg.Identifier = uuid.NewString()
	reg.CreatedAt = time.Now().UTC()

	if err := s.store.Create(ctx, reg); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	s.metrics.IncrementRegistrationsCreated()

	s.notifyDetached(*reg)
	return reg.Identifier, nil
}

// Get fetches a registration by its identifier.
func (s *Service) Get(ctx context.Context, identifier string) (*models.Registration, error) {
	reg, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

// Replace overwrites the scalar fields and the complete item list of an
// existing registration. The identifier itself never changes.
func (s *Service) Replace(ctx context.Context, identifier string, reg *models.Registration) error {
	reg.Identifier = identifier
	if err := s.store.Replace(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registration")
	}
	return nil
}

// List returns every registration with its items.
func (s *Service) List(ctx context.Context) ([]*models.Registration, error) {
	regs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// notifyDetached submits the confirmation send as its own unit of work. It
// runs after the store commit, carries a fresh context bounded by the mail
// timeout, and absorbs every failure into the log: the registrant already
// has their identifier by the time this runs.
func (s *Service) notifyDetached(reg models.Registration) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()
		if err := s.mailer.SendConfirmation(ctx, &reg); err != nil {
			s.logger.ErrorContext(ctx, "confirmation mail failed",
				"recipient", reg.Email,
				"identifier", reg.Identifier,
				"error", err,
			)
		}
	}()
}
