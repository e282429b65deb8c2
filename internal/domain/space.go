package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Space is the reservable area itself (party hall, BBQ area, ...). Spaces are
// owned by the structure-management service; this service only reads them.
type Space struct {
	ID            uuid.UUID `json:"id"`
	CondominiumID uuid.UUID `json:"condominium_id"`
	Name          string    `json:"name"`
	Reservable    bool      `json:"reservable"`
	Active        bool      `json:"active"`
}

// Weekday names accepted in AvailableDays, lowercase English.
var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// WeekdayName returns the lowercase English weekday name of a date.
func WeekdayName(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// SpaceConfig is the active rule set governing reservations for one space.
// At most one active config exists per space.
type SpaceConfig struct {
	ID                             uuid.UUID        `json:"id"`
	SpaceID                        uuid.UUID        `json:"space_id"`
	CondominiumID                  uuid.UUID        `json:"condominium_id"`
	AvailableDays                  []string         `json:"available_days"`
	StartTime                      TimeOfDay        `json:"start_time"`
	EndTime                        TimeOfDay        `json:"end_time"`
	DurationMinutes                int              `json:"duration_minutes"`
	MinAdvanceHours                int              `json:"min_advance_hours"`
	MaxAdvanceDays                 int              `json:"max_advance_days"`
	MaxReservationsPerDay          *int             `json:"max_reservations_per_day,omitempty"`
	MaxReservationsPerUserPerMonth *int             `json:"max_reservations_per_user_per_month,omitempty"`
	HourlyRate                     *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate                      *decimal.Decimal `json:"daily_rate,omitempty"`
	Active                         bool             `json:"active"`
	CreatedAt                      time.Time        `json:"created_at"`
	UpdatedAt                      time.Time        `json:"updated_at"`
}

// SpaceConfigCreate represents configuration creation data
type SpaceConfigCreate struct {
	AvailableDays                  []string         `json:"available_days" validate:"required,min=1,max=7,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime                      TimeOfDay        `json:"start_time"`
	EndTime                        TimeOfDay        `json:"end_time"`
	DurationMinutes                int              `json:"duration_minutes" validate:"required,min=15"`
	MinAdvanceHours                int              `json:"min_advance_hours" validate:"required,min=1"`
	MaxAdvanceDays                 int              `json:"max_advance_days" validate:"required,min=1"`
	MaxReservationsPerDay          *int             `json:"max_reservations_per_day,omitempty" validate:"omitempty,min=1"`
	MaxReservationsPerUserPerMonth *int             `json:"max_reservations_per_user_per_month,omitempty" validate:"omitempty,min=1"`
	HourlyRate                     *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate                      *decimal.Decimal `json:"daily_rate,omitempty"`
}

// Validate applies the cross-field rules the struct tags cannot express.
func (in SpaceConfigCreate) Validate() error {
	if !in.StartTime.Valid() || !in.EndTime.Valid() {
		return fmt.Errorf("start_time and end_time must be valid times of day")
	}
	if in.StartTime >= in.EndTime {
		return fmt.Errorf("start_time must be before end_time")
	}
	seen := map[string]bool{}
	for _, d := range in.AvailableDays {
		if !weekdayNames[d] {
			return fmt.Errorf("invalid weekday %q", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate weekday %q", d)
		}
		seen[d] = true
	}
	if in.HourlyRate != nil && in.HourlyRate.IsNegative() {
		return fmt.Errorf("hourly_rate must not be negative")
	}
	if in.DailyRate != nil && in.DailyRate.IsNegative() {
		return fmt.Errorf("daily_rate must not be negative")
	}
	return nil
}

// SpaceConfigUpdate represents configuration update data. Nil fields are
// left untouched.
type SpaceConfigUpdate struct {
	AvailableDays                  []string         `json:"available_days,omitempty" validate:"omitempty,min=1,max=7,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime                      *TimeOfDay       `json:"start_time,omitempty"`
	EndTime                        *TimeOfDay       `json:"end_time,omitempty"`
	DurationMinutes                *int             `json:"duration_minutes,omitempty" validate:"omitempty,min=15"`
	MinAdvanceHours                *int             `json:"min_advance_hours,omitempty" validate:"omitempty,min=1"`
	MaxAdvanceDays                 *int             `json:"max_advance_days,omitempty" validate:"omitempty,min=1"`
	MaxReservationsPerDay          *int             `json:"max_reservations_per_day,omitempty" validate:"omitempty,min=1"`
	MaxReservationsPerUserPerMonth *int             `json:"max_reservations_per_user_per_month,omitempty" validate:"omitempty,min=1"`
	HourlyRate                     *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate                      *decimal.Decimal `json:"daily_rate,omitempty"`
}

// Apply merges the update into c and re-checks the config invariants.
func (c *SpaceConfig) Apply(in SpaceConfigUpdate) error {
	if in.AvailableDays != nil {
		c.AvailableDays = in.AvailableDays
	}
	if in.StartTime != nil {
		c.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		c.EndTime = *in.EndTime
	}
	if in.DurationMinutes != nil {
		c.DurationMinutes = *in.DurationMinutes
	}
	if in.MinAdvanceHours != nil {
		c.MinAdvanceHours = *in.MinAdvanceHours
	}
	if in.MaxAdvanceDays != nil {
		c.MaxAdvanceDays = *in.MaxAdvanceDays
	}
	if in.MaxReservationsPerDay != nil {
		c.MaxReservationsPerDay = in.MaxReservationsPerDay
	}
	if in.MaxReservationsPerUserPerMonth != nil {
		c.MaxReservationsPerUserPerMonth = in.MaxReservationsPerUserPerMonth
	}
	if in.HourlyRate != nil {
		c.HourlyRate = in.HourlyRate
	}
	if in.DailyRate != nil {
		c.DailyRate = in.DailyRate
	}
	check := SpaceConfigCreate{
		AvailableDays:   c.AvailableDays,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		DurationMinutes: c.DurationMinutes,
		MinAdvanceHours: c.MinAdvanceHours,
		MaxAdvanceDays:  c.MaxAdvanceDays,
		HourlyRate:      c.HourlyRate,
		DailyRate:       c.DailyRate,
	}
	return check.Validate()
}

// DayAvailable reports whether the config accepts reservations on the
// weekday of date.
func (c *SpaceConfig) DayAvailable(date time.Time) bool {
	name := WeekdayName(date)
	for _, d := range c.AvailableDays {
		if d == name {
			return true
		}
	}
	return false
}

// Admit runs the time-based admission rules for a candidate slot, in order,
// stopping at the first violation. Conflict detection and occupancy caps are
// storage-side checks and run separately, inside the booking transaction.
//
// All instants are condominium-local wall clock. The caller's now is
// re-anchored next to the reservation date so a server clock in another
// timezone cannot shift the lead-time bounds.
func (c *SpaceConfig) Admit(date time.Time, start, end TimeOfDay, now time.Time) error {
	now = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, date.Location())
	startInstant := start.At(date)

	// Lead-time lower bound, floor-truncated to whole hours.
	hoursAhead := int(startInstant.Sub(now).Hours())
	if startInstant.Before(now) || hoursAhead < c.MinAdvanceHours {
		return fmt.Errorf("%w: must be booked at least %d hours in advance", ErrTooSoon, c.MinAdvanceHours)
	}

	// Lead-time upper bound, whole calendar days.
	daysAhead := int(truncateDay(date).Sub(truncateDay(now)).Hours() / 24)
	if daysAhead > c.MaxAdvanceDays {
		return fmt.Errorf("%w: must be booked at most %d days in advance", ErrTooFarAhead, c.MaxAdvanceDays)
	}

	if !c.DayAvailable(date) {
		return fmt.Errorf("%w: available days are %s", ErrDayUnavailable, strings.Join(c.AvailableDays, ", "))
	}

	if start < c.StartTime || end > c.EndTime {
		return fmt.Errorf("%w: must be within %s-%s", ErrOutsideWindow, c.StartTime, c.EndTime)
	}

	if end.Sub(start) < c.DurationMinutes {
		return fmt.Errorf("%w: minimum duration is %d minutes", ErrTooShort, c.DurationMinutes)
	}

	return nil
}

// EstimateAmount derives the advisory booking amount for a slot: the hourly
// rate times the duration when set, otherwise the daily rate for bookings of
// eight hours or more, otherwise zero.
func (c *SpaceConfig) EstimateAmount(start, end TimeOfDay) decimal.Decimal {
	hours := decimal.NewFromInt(int64(end.Sub(start))).Div(decimal.NewFromInt(60))
	if c.HourlyRate != nil {
		return c.HourlyRate.Mul(hours).Round(2)
	}
	if c.DailyRate != nil && hours.GreaterThanOrEqual(decimal.NewFromInt(8)) {
		return c.DailyRate.Round(2)
	}
	return decimal.Zero
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SpaceRepository defines read access to externally-owned spaces
type SpaceRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Space, error)
}

// SpaceConfigRepository defines the interface for configuration storage
type SpaceConfigRepository interface {
	Create(ctx context.Context, cfg *SpaceConfig) error
	GetActiveBySpace(ctx context.Context, spaceID uuid.UUID) (*SpaceConfig, error)
	Update(ctx context.Context, cfg *SpaceConfig) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}
