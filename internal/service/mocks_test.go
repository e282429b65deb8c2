package service

import (
	"context"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSpaceRepository mocks the SpaceRepository interface
type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Space), args.Error(1)
}

// MockSpaceConfigRepository mocks the SpaceConfigRepository interface
type MockSpaceConfigRepository struct {
	mock.Mock
}

func (m *MockSpaceConfigRepository) Create(ctx context.Context, cfg *domain.SpaceConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockSpaceConfigRepository) GetActiveBySpace(ctx context.Context, spaceID uuid.UUID) (*domain.SpaceConfig, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpaceConfig), args.Error(1)
}

func (m *MockSpaceConfigRepository) Update(ctx context.Context, cfg *domain.SpaceConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockSpaceConfigRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReservationRepository mocks the ReservationRepository interface
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, res *domain.Reservation, caps domain.CapLimits) error {
	args := m.Called(ctx, res, caps)
	return args.Error(0)
}

func (m *MockReservationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListActiveForDate(ctx context.Context, spaceID uuid.UUID, date time.Time) ([]domain.ConflictSummary, error) {
	args := m.Called(ctx, spaceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConflictSummary), args.Error(1)
}

func (m *MockReservationRepository) Confirm(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time, reason string) (*domain.Reservation, error) {
	args := m.Called(ctx, id, at, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Reject(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockAvailabilityCache mocks both the read and invalidation sides of the
// availability cache.
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) Get(ctx context.Context, spaceID uuid.UUID, date string) (*domain.AvailabilityResult, error) {
	args := m.Called(ctx, spaceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityResult), args.Error(1)
}

func (m *MockAvailabilityCache) Set(ctx context.Context, result *domain.AvailabilityResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, spaceID uuid.UUID, date string) error {
	args := m.Called(ctx, spaceID, date)
	return args.Error(0)
}

func (m *MockAvailabilityCache) InvalidateSpace(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).(int64), args.Error(1)
}
