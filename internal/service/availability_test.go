package service

import (
	"context"
	"testing"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type availabilityFixture struct {
	spaces       *MockSpaceRepository
	configs      *MockSpaceConfigRepository
	reservations *MockReservationRepository
	cache        *MockAvailabilityCache
	svc          *AvailabilityService
}

func newAvailabilityFixture() *availabilityFixture {
	f := &availabilityFixture{
		spaces:       new(MockSpaceRepository),
		configs:      new(MockSpaceConfigRepository),
		reservations: new(MockReservationRepository),
		cache:        new(MockAvailabilityCache),
	}
	gate := NewSpaceConfigService(f.spaces, f.configs, f.cache, clockwork.NewFakeClockAt(testNow))
	f.svc = NewAvailabilityService(gate, f.reservations, f.cache)
	return f
}

func TestAvailabilityService_Get(t *testing.T) {
	ctx := context.Background()
	condominiumID := uuid.New()
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	t.Run("cache hit skips everything", func(t *testing.T) {
		f := newAvailabilityFixture()
		space := testSpace(condominiumID)
		cached := &domain.AvailabilityResult{SpaceID: space.ID, Date: "2026-03-06", Available: true}

		f.cache.On("Get", ctx, space.ID, "2026-03-06").Return(cached, nil)

		got, err := f.svc.Get(ctx, condominiumID, space.ID, friday)
		assert.NoError(t, err)
		assert.Same(t, cached, got)
		f.spaces.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("available day with existing reservations", func(t *testing.T) {
		f := newAvailabilityFixture()
		space := testSpace(condominiumID)
		cfg := testSpaceConfig(space)
		existing := []domain.ConflictSummary{
			{ID: uuid.New(), ContactName: "Ana", StartTime: 10 * 60, EndTime: 12 * 60, Status: domain.StatusConfirmed},
		}

		f.cache.On("Get", ctx, space.ID, "2026-03-06").Return(nil, nil)
		f.spaces.On("Get", ctx, space.ID).Return(space, nil)
		f.configs.On("GetActiveBySpace", ctx, space.ID).Return(cfg, nil)
		f.reservations.On("ListActiveForDate", ctx, space.ID, friday).Return(existing, nil)
		f.cache.On("Set", ctx, mock.AnythingOfType("*domain.AvailabilityResult")).Return(nil)

		got, err := f.svc.Get(ctx, condominiumID, space.ID, friday)
		assert.NoError(t, err)
		assert.True(t, got.Available)
		assert.Equal(t, cfg.StartTime, *got.StartTime)
		assert.Equal(t, cfg.EndTime, *got.EndTime)
		assert.Equal(t, cfg.DurationMinutes, got.DurationMinutes)
		assert.Equal(t, existing, got.Reservations)

		f.cache.AssertExpectations(t)
	})

	t.Run("weekday outside available days", func(t *testing.T) {
		f := newAvailabilityFixture()
		space := testSpace(condominiumID)
		cfg := testSpaceConfig(space)
		sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

		f.cache.On("Get", ctx, space.ID, "2026-03-08").Return(nil, nil)
		f.spaces.On("Get", ctx, space.ID).Return(space, nil)
		f.configs.On("GetActiveBySpace", ctx, space.ID).Return(cfg, nil)
		f.cache.On("Set", ctx, mock.AnythingOfType("*domain.AvailabilityResult")).Return(nil)

		got, err := f.svc.Get(ctx, condominiumID, space.ID, sunday)
		assert.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, domain.ReasonDayUnavailable, got.Reason)
		f.reservations.AssertNotCalled(t, "ListActiveForDate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unconfigured space reads as unavailable", func(t *testing.T) {
		f := newAvailabilityFixture()
		space := testSpace(condominiumID)

		f.cache.On("Get", ctx, space.ID, "2026-03-06").Return(nil, nil)
		f.spaces.On("Get", ctx, space.ID).Return(space, nil)
		f.configs.On("GetActiveBySpace", ctx, space.ID).Return(nil, domain.ErrNotConfigured)
		f.cache.On("Set", ctx, mock.AnythingOfType("*domain.AvailabilityResult")).Return(nil)

		got, err := f.svc.Get(ctx, condominiumID, space.ID, friday)
		assert.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, domain.ReasonNotConfigured, got.Reason)
	})

	t.Run("non-reservable space reads as unavailable", func(t *testing.T) {
		f := newAvailabilityFixture()
		space := testSpace(condominiumID)
		space.Reservable = false

		f.cache.On("Get", ctx, space.ID, "2026-03-06").Return(nil, nil)
		f.spaces.On("Get", ctx, space.ID).Return(space, nil)
		f.cache.On("Set", ctx, mock.AnythingOfType("*domain.AvailabilityResult")).Return(nil)

		got, err := f.svc.Get(ctx, condominiumID, space.ID, friday)
		assert.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, domain.ReasonNotReservable, got.Reason)
	})

	t.Run("unknown space propagates the error", func(t *testing.T) {
		f := newAvailabilityFixture()
		spaceID := uuid.New()

		f.cache.On("Get", ctx, spaceID, "2026-03-06").Return(nil, nil)
		f.spaces.On("Get", ctx, spaceID).Return(nil, domain.ErrSpaceNotFound)

		_, err := f.svc.Get(ctx, condominiumID, spaceID, friday)
		assert.ErrorIs(t, err, domain.ErrSpaceNotFound)
	})
}
