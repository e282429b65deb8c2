package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReservationService runs the booking admission pipeline and the lifecycle
// transitions.
type ReservationService struct {
	gate         *SpaceConfigService
	reservations domain.ReservationRepository
	cache        AvailabilityInvalidator
	clock        clockwork.Clock
}

// NewReservationService creates a new reservation service
func NewReservationService(
	gate *SpaceConfigService,
	reservations domain.ReservationRepository,
	cache AvailabilityInvalidator,
	clock clockwork.Clock,
) *ReservationService {
	return &ReservationService{
		gate:         gate,
		reservations: reservations,
		cache:        cache,
		clock:        clock,
	}
}

// Create evaluates a booking request against the space's active
// configuration and, when admissible, persists it. The repository re-checks
// caps and overlaps inside the slot-locked transaction, so two concurrent
// requests for overlapping slots cannot both succeed.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, condominiumID, spaceID uuid.UUID, input domain.ReservationCreate) (*domain.Reservation, error) {
	space, cfg, err := s.gate.Gate(ctx, condominiumID, spaceID)
	if err != nil {
		return nil, err
	}

	date, err := input.Date()
	if err != nil {
		return nil, fmt.Errorf("invalid reservation_date: %w", err)
	}
	if !input.StartTime.Valid() || !input.EndTime.Valid() || input.StartTime >= input.EndTime {
		return nil, fmt.Errorf("start_time must be before end_time")
	}

	now := s.clock.Now()
	if err := cfg.Admit(date, input.StartTime, input.EndTime, now); err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		ID:               uuid.New(),
		SpaceID:          space.ID,
		CondominiumID:    condominiumID,
		UserID:           actor.UserID,
		UnitID:           input.UnitID,
		ReservationDate:  date,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		DurationMinutes:  input.EndTime.Sub(input.StartTime),
		ContactName:      input.ContactName,
		ContactPhone:     input.ContactPhone,
		ContactEmail:     input.ContactEmail,
		EventType:        input.EventType,
		EventDescription: input.EventDescription,
		ExpectedGuests:   input.ExpectedGuests,
		Status:           domain.StatusPending,
		TotalAmount:      cfg.EstimateAmount(input.StartTime, input.EndTime),
		PaidAmount:       decimal.Zero,
		PaymentStatus:    domain.PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	caps := domain.CapLimits{
		PerDay:          cfg.MaxReservationsPerDay,
		PerUserPerMonth: cfg.MaxReservationsPerUserPerMonth,
	}
	if err := s.reservations.Create(ctx, res, caps); err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_id", res.ID.String()).
		Str("space_id", space.ID.String()).
		Str("date", input.ReservationDate).
		Str("slot", fmt.Sprintf("%s-%s", res.StartTime, res.EndTime)).
		Msg("Reservation created")

	s.invalidate(ctx, res)
	return res, nil
}

// Get returns a reservation. Residents may only read their own bookings.
func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error) {
	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(res) {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

// List returns reservations for a condominium. Residents are always scoped
// to their own bookings; administrators see everything the filter matches.
func (s *ReservationService) List(ctx context.Context, actor domain.Actor, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if !actor.IsAdmin() {
		userID := actor.UserID
		filter.UserID = &userID
	}
	return s.reservations.List(ctx, filter)
}

// Confirm transitions pending -> confirmed. Administrator action.
func (s *ReservationService) Confirm(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	res, err := s.reservations.Confirm(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, res)
	return res, nil
}

// Cancel transitions pending or confirmed -> cancelled, before the
// reservation's start instant. Owner or administrator action.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID, reason string) (*domain.Reservation, error) {
	current, err := s.reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(current) {
		return nil, domain.ErrForbidden
	}

	now := s.clock.Now()
	if !current.CanBeCancelled(now) {
		return nil, fmt.Errorf("%w: reservation is %s", domain.ErrInvalidTransition, describeUncancellable(current, now))
	}

	// The repository re-applies the status and cutoff checks in the update
	// itself; this pre-check only produces the friendlier message above.
	res, err := s.reservations.Cancel(ctx, id, now, reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, res)
	return res, nil
}

// Reject transitions pending -> rejected. Administrator action.
func (s *ReservationService) Reject(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	res, err := s.reservations.Reject(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, res)
	return res, nil
}

// Complete transitions confirmed -> completed. Administrator action; the
// completion sweeper applies the same transition automatically post-event.
func (s *ReservationService) Complete(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	res, err := s.reservations.Complete(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, res)
	return res, nil
}

// CompleteElapsed marks confirmed reservations whose end has passed as
// completed. Called by the cron sweeper.
func (s *ReservationService) CompleteElapsed(ctx context.Context) (int64, error) {
	return s.reservations.CompleteElapsed(ctx, s.clock.Now())
}

func describeUncancellable(r *domain.Reservation, now time.Time) string {
	if r.Active() && !now.Before(r.StartInstant()) {
		return "already past its start time"
	}
	return string(r.Status)
}

func (s *ReservationService) invalidate(ctx context.Context, res *domain.Reservation) {
	if s.cache == nil {
		return
	}
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.cache.Invalidate(invCtx, res.SpaceID, res.ReservationDate.Format("2006-01-02")); err != nil {
		log.Warn().Err(err).Str("space_id", res.SpaceID.String()).Msg("Failed to invalidate availability cache")
	}
}
