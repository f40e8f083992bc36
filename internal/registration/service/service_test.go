package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skibazar/internal/platform/metrics"
	"skibazar/internal/registration/models"
	"skibazar/internal/registration/service"
	"skibazar/internal/registration/store"
	dErrors "skibazar/pkg/domain-errors"
)

// fakeMailer records confirmation requests and optionally fails them.
type fakeMailer struct {
	err    error
	called chan *models.Registration
}

func newFakeMailer(err error) *fakeMailer {
	return &fakeMailer{err: err, called: make(chan *models.Registration, 1)}
}

func (f *fakeMailer) SendConfirmation(_ context.Context, reg *models.Registration) error {
	f.called <- reg
	return f.err
}

// failingStore rejects every write.
type failingStore struct {
	store.Store
}

func (failingStore) Create(context.Context, *models.Registration) error {
	return errors.New("disk full")
}

func newService(t *testing.T, mailer service.ConfirmationSender) *service.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	return service.New(store.NewInMemoryStore(), mailer, logger, m, time.Second)
}

func sampleRegistration() *models.Registration {
	return &models.Registration{
		Name:  "Anna",
		Phone: "0170 1234567",
		Email: "a@example.com",
		Items: []models.LineItem{{Description: "Skihose", Size: "152", Price: 15.0}},
	}
}

func TestCreateAssignsIdentifierAndPersists(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	identifier, err := svc.Create(ctx, sampleRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, identifier)

	got, err := svc.Get(ctx, identifier)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, identifier, got.Identifier)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 15.0, got.Items[0].Price)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateNotifiesAfterCommitWithIdentifier(t *testing.T) {
	mailer := newFakeMailer(nil)
	svc := newService(t, mailer)

	identifier, err := svc.Create(context.Background(), sampleRegistration())
	require.NoError(t, err)

	select {
	case reg := <-mailer.called:
		// The detached task sees the committed state, identifier included.
		assert.Equal(t, identifier, reg.Identifier)
		assert.Equal(t, "a@example.com", reg.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation mail was never attempted")
	}
}

func TestCreateSucceedsWhenMailerFails(t *testing.T) {
	mailer := newFakeMailer(errors.New("template missing"))
	svc := newService(t, mailer)
	ctx := context.Background()

	identifier, err := svc.Create(ctx, sampleRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, identifier)

	select {
	case <-mailer.called:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation mail was never attempted")
	}

	// The registration is still retrievable; the mail failure stayed internal.
	got, err := svc.Get(ctx, identifier)
	require.NoError(t, err)
	assert.Equal(t, identifier, got.Identifier)
}

func TestCreateStoreFailureIsInternal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	svc := service.New(failingStore{}, nil, logger, m, time.Second)

	_, err := svc.Create(context.Background(), sampleRegistration())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestGetUnknownIdentifierIsNotFound(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Get(context.Background(), "cafecafe-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestReplaceUnknownIdentifierIsNotFound(t *testing.T) {
	svc := newService(t, nil)

	err := svc.Replace(context.Background(), "cafecafe-0000-0000-0000-000000000000", sampleRegistration())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestReplaceKeepsIdentifierAndSwapsItems(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	identifier, err := svc.Create(ctx, sampleRegistration())
	require.NoError(t, err)

	updated := sampleRegistration()
	updated.Items = []models.LineItem{
		{Description: "Snowboard", Size: "140", Price: 45.0},
		{Description: "Boots", Size: "38", Price: 25.0},
	}
	require.NoError(t, svc.Replace(ctx, identifier, updated))

	got, err := svc.Get(ctx, identifier)
	require.NoError(t, err)
	assert.Equal(t, identifier, got.Identifier)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Snowboard", got.Items[0].Description)
	assert.Equal(t, "Boots", got.Items[1].Description)
}

func TestConcurrentCreatesGetDistinctIdentifiers(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()
	const n = 16

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		identifiers = make(map[string]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			identifier, err := svc.Create(ctx, sampleRegistration())
			require.NoError(t, err)
			mu.Lock()
			identifiers[identifier] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, identifiers, n)
	for identifier := range identifiers {
		_, err := svc.Get(ctx, identifier)
		assert.NoError(t, err)
	}
}
