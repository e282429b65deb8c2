package service

import (
	"context"
	"errors"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AvailabilityCache is the read side of the availability cache.
type AvailabilityCache interface {
	Get(ctx context.Context, spaceID uuid.UUID, date string) (*domain.AvailabilityResult, error)
	Set(ctx context.Context, result *domain.AvailabilityResult) error
}

// AvailabilityService answers "is this space free on this date" for slot
// pickers. It is read-only and lock-free: a slot shown as available can
// still be lost to a concurrent booking, and the booking transaction is
// what settles the race.
type AvailabilityService struct {
	gate         *SpaceConfigService
	reservations domain.ReservationRepository
	cache        AvailabilityCache
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	gate *SpaceConfigService,
	reservations domain.ReservationRepository,
	cache AvailabilityCache,
) *AvailabilityService {
	return &AvailabilityService{
		gate:         gate,
		reservations: reservations,
		cache:        cache,
	}
}

// Get computes the availability of a space on a calendar date.
func (s *AvailabilityService) Get(ctx context.Context, condominiumID, spaceID uuid.UUID, date time.Time) (*domain.AvailabilityResult, error) {
	dateKey := date.Format("2006-01-02")

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, spaceID, dateKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	result := &domain.AvailabilityResult{
		SpaceID: spaceID,
		Date:    dateKey,
	}

	_, cfg, err := s.gate.Gate(ctx, condominiumID, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotReservable):
			result.Reason = domain.ReasonNotReservable
		case errors.Is(err, domain.ErrNotConfigured):
			result.Reason = domain.ReasonNotConfigured
		default:
			return nil, err
		}
		s.store(ctx, result)
		return result, nil
	}

	if !cfg.DayAvailable(date) {
		result.Reason = domain.ReasonDayUnavailable
		s.store(ctx, result)
		return result, nil
	}

	existing, err := s.reservations.ListActiveForDate(ctx, spaceID, date)
	if err != nil {
		return nil, err
	}

	start, end := cfg.StartTime, cfg.EndTime
	result.Available = true
	result.StartTime = &start
	result.EndTime = &end
	result.DurationMinutes = cfg.DurationMinutes
	result.HourlyRate = cfg.HourlyRate
	result.DailyRate = cfg.DailyRate
	result.Reservations = existing

	s.store(ctx, result)
	return result, nil
}

func (s *AvailabilityService) store(ctx context.Context, result *domain.AvailabilityResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, result); err != nil {
		log.Warn().Err(err).Str("space_id", result.SpaceID.String()).Msg("Failed to cache availability result")
	}
}
