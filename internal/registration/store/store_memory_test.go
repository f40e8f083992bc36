package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skibazar/internal/registration/models"
	"skibazar/internal/registration/store"
	"skibazar/pkg/platform/sentinel"
)

func newTestRegistration(name string) *models.Registration {
	return &models.Registration{
		Identifier: uuid.NewString(),
		Name:       name,
		Phone:      "0170 1234567",
		Email:      "anna@example.com",
		Note:       "kommt samstags",
		Items: []models.LineItem{
			{Description: "Skihose", Size: "152", Price: 15.0},
			{Description: "Helm", Size: "S", Price: 20.0},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()
	reg := newTestRegistration("Anna")

	require.NoError(t, s.Create(ctx, reg))

	got, err := s.GetByIdentifier(ctx, reg.Identifier)
	require.NoError(t, err)
	assert.Equal(t, reg.Name, got.Name)
	assert.Equal(t, reg.Email, got.Email)
	assert.Equal(t, reg.Items, got.Items)
}

func TestMemoryGetUnknownIdentifier(t *testing.T) {
	s := store.NewInMemoryStore()

	_, err := s.GetByIdentifier(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryCreateDuplicateIdentifier(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()
	reg := newTestRegistration("Anna")

	require.NoError(t, s.Create(ctx, reg))
	err := s.Create(ctx, reg)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestMemoryReplaceSupersedesItems(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()
	reg := newTestRegistration("Anna")
	require.NoError(t, s.Create(ctx, reg))

	updated := &models.Registration{
		Identifier: reg.Identifier,
		Name:       "Anna Maier",
		Phone:      reg.Phone,
		Email:      reg.Email,
		Items: []models.LineItem{
			{Description: "Snowboard", Size: "140", Price: 45.0},
		},
	}
	require.NoError(t, s.Replace(ctx, updated))

	got, err := s.GetByIdentifier(ctx, reg.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "Anna Maier", got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Snowboard", got.Items[0].Description)
	// Creation time survives the replace.
	assert.Equal(t, reg.CreatedAt, got.CreatedAt)
}

func TestMemoryReplaceUnknownIdentifier(t *testing.T) {
	s := store.NewInMemoryStore()
	reg := newTestRegistration("Anna")

	err := s.Replace(context.Background(), reg)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryListAllPreservesInsertionOrder(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()

	first := newTestRegistration("Anna")
	second := newTestRegistration("Bernd")
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	regs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, first.Identifier, regs[0].Identifier)
	assert.Equal(t, second.Identifier, regs[1].Identifier)
}

func TestMemoryStoreCopiesItems(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()
	reg := newTestRegistration("Anna")
	require.NoError(t, s.Create(ctx, reg))

	// Mutating the caller's slice must not change stored state.
	reg.Items[0].Description = "mutated"

	got, err := s.GetByIdentifier(ctx, reg.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "Skihose", got.Items[0].Description)
}
