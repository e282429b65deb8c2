package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// AvailabilityInvalidator clears cached availability answers after writes.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, spaceID uuid.UUID, date string) error
	InvalidateSpace(ctx context.Context, spaceID uuid.UUID) (int64, error)
}

// SpaceConfigService manages the per-space reservation rule sets and acts as
// the admission gate for booking operations.
type SpaceConfigService struct {
	spaces  domain.SpaceRepository
	configs domain.SpaceConfigRepository
	cache   AvailabilityInvalidator
	clock   clockwork.Clock
}

// NewSpaceConfigService creates a new space config service
func NewSpaceConfigService(
	spaces domain.SpaceRepository,
	configs domain.SpaceConfigRepository,
	cache AvailabilityInvalidator,
	clock clockwork.Clock,
) *SpaceConfigService {
	return &SpaceConfigService{
		spaces:  spaces,
		configs: configs,
		cache:   cache,
		clock:   clock,
	}
}

// Gate returns the space and its active configuration when the space accepts
// reservations at all. It fails with ErrSpaceNotFound, ErrNotReservable or
// ErrNotConfigured otherwise.
func (s *SpaceConfigService) Gate(ctx context.Context, condominiumID, spaceID uuid.UUID) (*domain.Space, *domain.SpaceConfig, error) {
	space, err := s.spaces.Get(ctx, spaceID)
	if err != nil {
		return nil, nil, err
	}
	if space.CondominiumID != condominiumID {
		return nil, nil, domain.ErrSpaceNotFound
	}
	if !space.Active || !space.Reservable {
		return nil, nil, domain.ErrNotReservable
	}

	cfg, err := s.configs.GetActiveBySpace(ctx, spaceID)
	if err != nil {
		return nil, nil, err
	}
	return space, cfg, nil
}

// findActive resolves the active configuration without the reservable check.
// Administrators can still read, adjust or retire a configuration after the
// space itself was flagged off.
func (s *SpaceConfigService) findActive(ctx context.Context, condominiumID, spaceID uuid.UUID) (*domain.SpaceConfig, error) {
	space, err := s.spaces.Get(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.CondominiumID != condominiumID {
		return nil, domain.ErrSpaceNotFound
	}
	return s.configs.GetActiveBySpace(ctx, spaceID)
}

// Create installs the active configuration for a reservable space. A space
// that already has an active configuration rejects a second one.
func (s *SpaceConfigService) Create(ctx context.Context, condominiumID, spaceID uuid.UUID, input domain.SpaceConfigCreate) (*domain.SpaceConfig, error) {
	space, err := s.spaces.Get(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.CondominiumID != condominiumID {
		return nil, domain.ErrSpaceNotFound
	}
	if !space.Active || !space.Reservable {
		return nil, domain.ErrNotReservable
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cfg := &domain.SpaceConfig{
		ID:                             uuid.New(),
		SpaceID:                        spaceID,
		CondominiumID:                  condominiumID,
		AvailableDays:                  input.AvailableDays,
		StartTime:                      input.StartTime,
		EndTime:                        input.EndTime,
		DurationMinutes:                input.DurationMinutes,
		MinAdvanceHours:                input.MinAdvanceHours,
		MaxAdvanceDays:                 input.MaxAdvanceDays,
		MaxReservationsPerDay:          input.MaxReservationsPerDay,
		MaxReservationsPerUserPerMonth: input.MaxReservationsPerUserPerMonth,
		HourlyRate:                     input.HourlyRate,
		DailyRate:                      input.DailyRate,
		Active:                         true,
		CreatedAt:                      now,
		UpdatedAt:                      now,
	}

	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}

	s.invalidateSpace(ctx, spaceID)
	return cfg, nil
}

// GetActive returns the active configuration for a space.
func (s *SpaceConfigService) GetActive(ctx context.Context, condominiumID, spaceID uuid.UUID) (*domain.SpaceConfig, error) {
	return s.findActive(ctx, condominiumID, spaceID)
}

// Update modifies the active configuration in place.
func (s *SpaceConfigService) Update(ctx context.Context, condominiumID, spaceID uuid.UUID, input domain.SpaceConfigUpdate) (*domain.SpaceConfig, error) {
	cfg, err := s.findActive(ctx, condominiumID, spaceID)
	if err != nil {
		return nil, err
	}

	if err := cfg.Apply(input); err != nil {
		return nil, err
	}
	cfg.UpdatedAt = s.clock.Now()

	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to update config: %w", err)
	}

	s.invalidateSpace(ctx, spaceID)
	return cfg, nil
}

// Deactivate soft-deletes the active configuration. The space stops
// accepting reservations until a new configuration is created.
func (s *SpaceConfigService) Deactivate(ctx context.Context, condominiumID, spaceID uuid.UUID) error {
	cfg, err := s.findActive(ctx, condominiumID, spaceID)
	if err != nil {
		return err
	}

	if err := s.configs.Deactivate(ctx, cfg.ID); err != nil {
		return fmt.Errorf("failed to deactivate config: %w", err)
	}

	s.invalidateSpace(ctx, spaceID)
	return nil
}

func (s *SpaceConfigService) invalidateSpace(ctx context.Context, spaceID uuid.UUID) {
	if s.cache == nil {
		return
	}
	// Stale cache entries expire on their own; a failed invalidation is
	// worth a log line, not a failed request.
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if _, err := s.cache.InvalidateSpace(invCtx, spaceID); err != nil {
		log.Warn().Err(err).Str("space_id", spaceID.String()).Msg("Failed to invalidate availability cache")
	}
}
