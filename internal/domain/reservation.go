package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents a reservation's lifecycle state
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusRejected  ReservationStatus = "rejected"
)

// PaymentStatus tracks how much of the derived amount has been settled.
// Billing itself happens outside this service.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
)

// Reservation is a booking of a shared space for a time slot on one date.
type Reservation struct {
	ID                 uuid.UUID         `json:"id"`
	SpaceID            uuid.UUID         `json:"space_id"`
	CondominiumID      uuid.UUID         `json:"condominium_id"`
	UserID             uuid.UUID         `json:"user_id"`
	UnitID             *uuid.UUID        `json:"unit_id,omitempty"`
	ReservationDate    time.Time         `json:"reservation_date"`
	StartTime          TimeOfDay         `json:"start_time"`
	EndTime            TimeOfDay         `json:"end_time"`
	DurationMinutes    int               `json:"duration_minutes"`
	ContactName        string            `json:"contact_name"`
	ContactPhone       string            `json:"contact_phone"`
	ContactEmail       *string           `json:"contact_email,omitempty"`
	EventType          *string           `json:"event_type,omitempty"`
	EventDescription   *string           `json:"event_description,omitempty"`
	ExpectedGuests     *int              `json:"expected_guests,omitempty"`
	Status             ReservationStatus `json:"status"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	PaidAmount         decimal.Decimal   `json:"paid_amount"`
	PaymentStatus      PaymentStatus     `json:"payment_status"`
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Active reports whether the reservation still occupies its slot. Cancelled,
// rejected and completed reservations never conflict with new bookings.
func (r *Reservation) Active() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// StartInstant combines the reservation date and start time.
func (r *Reservation) StartInstant() time.Time {
	return r.StartTime.At(r.ReservationDate)
}

// EndInstant combines the reservation date and end time.
func (r *Reservation) EndInstant() time.Time {
	return r.EndTime.At(r.ReservationDate)
}

// CanBeConfirmed is true only for pending reservations.
func (r *Reservation) CanBeConfirmed() bool {
	return r.Status == StatusPending
}

// CanBeCancelled is true for pending or confirmed reservations whose start
// instant has not passed. The cutoff is the start time: once the event has
// begun the booking can no longer be cancelled.
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	return r.Active() && now.Before(r.StartInstant())
}

// ConflictSummary is the reduced view of an overlapping reservation, safe to
// show the requester without leaking the full record.
type ConflictSummary struct {
	ID          uuid.UUID         `json:"id"`
	ContactName string            `json:"contact_name"`
	StartTime   TimeOfDay         `json:"start_time"`
	EndTime     TimeOfDay         `json:"end_time"`
	Status      ReservationStatus `json:"status"`
}

// ReservationCreate represents booking request data
type ReservationCreate struct {
	ReservationDate  string     `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	StartTime        TimeOfDay  `json:"start_time"`
	EndTime          TimeOfDay  `json:"end_time"`
	UnitID           *uuid.UUID `json:"unit_id,omitempty"`
	ContactName      string     `json:"contact_name" validate:"required,max=255"`
	ContactPhone     string     `json:"contact_phone" validate:"required,max=32"`
	ContactEmail     *string    `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	EventType        *string    `json:"event_type,omitempty" validate:"omitempty,max=100"`
	EventDescription *string    `json:"event_description,omitempty" validate:"omitempty,max=2000"`
	ExpectedGuests   *int       `json:"expected_guests,omitempty" validate:"omitempty,min=1,max=10000"`
}

// Date parses the reservation date.
func (in ReservationCreate) Date() (time.Time, error) {
	return time.Parse("2006-01-02", in.ReservationDate)
}

// ReservationCancel carries the cancellation reason.
type ReservationCancel struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ReservationFilter narrows reservation listings. SpaceID nil means the whole
// condominium; UserID set restricts to that user's own bookings.
type ReservationFilter struct {
	CondominiumID uuid.UUID
	SpaceID       *uuid.UUID
	UserID        *uuid.UUID
	Status        *ReservationStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
	Limit         int
	Offset        int
}

// CapLimits are the optional occupancy caps checked inside the booking
// transaction, alongside conflict detection.
type CapLimits struct {
	PerDay          *int
	PerUserPerMonth *int
}

// CheckPerDay rejects a new booking when the space already holds activeCount
// reservations on the date and the per-day cap is set.
func (c CapLimits) CheckPerDay(activeCount int) error {
	if c.PerDay != nil && activeCount >= *c.PerDay {
		return fmt.Errorf("%w: at most %d reservations per day", ErrDailyLimitReached, *c.PerDay)
	}
	return nil
}

// CheckPerUserMonth rejects a new booking when the user already holds
// activeCount reservations for the space in the calendar month and the
// per-user cap is set.
func (c CapLimits) CheckPerUserMonth(activeCount int) error {
	if c.PerUserPerMonth != nil && activeCount >= *c.PerUserPerMonth {
		return fmt.Errorf("%w: at most %d reservations per month", ErrMonthlyLimitReached, *c.PerUserPerMonth)
	}
	return nil
}

// ReservationRepository defines the interface for reservation storage.
type ReservationRepository interface {
	// Create inserts the reservation after re-checking occupancy caps and
	// overlaps within a single transaction that locks the (space, date) slot.
	// Returns *ConflictError, ErrDailyLimitReached or ErrMonthlyLimitReached
	// when the slot cannot be taken.
	Create(ctx context.Context, res *Reservation, caps CapLimits) error

	Get(ctx context.Context, id uuid.UUID) (*Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]Reservation, error)

	// ListActiveForDate returns the active reservations for a space on a
	// date, reduced for display and ordered by start time.
	ListActiveForDate(ctx context.Context, spaceID uuid.UUID, date time.Time) ([]ConflictSummary, error)

	// Confirm, Cancel, Reject and Complete apply status transitions as
	// compare-and-swap updates so concurrent actors cannot both win.
	Confirm(ctx context.Context, id uuid.UUID, at time.Time) (*Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID, at time.Time, reason string) (*Reservation, error)
	Reject(ctx context.Context, id uuid.UUID, at time.Time) (*Reservation, error)
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (*Reservation, error)

	// CompleteElapsed marks confirmed reservations whose end instant has
	// passed as completed, returning the number of rows swept.
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}
