package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unavailability reasons returned by the availability query.
const (
	ReasonNotReservable  = "space is not reservable"
	ReasonNotConfigured  = "space has no active reservation configuration"
	ReasonDayUnavailable = "space is not available on this weekday"
)

// AvailabilityResult answers "can this space be booked on this date" for a
// calendar or slot-picker client. It is a pure read: nothing is held or
// reserved, and a slot shown as free can still be lost to a concurrent
// booking before submission.
type AvailabilityResult struct {
	SpaceID         uuid.UUID         `json:"space_id"`
	Date            string            `json:"date"`
	Available       bool              `json:"available"`
	Reason          string            `json:"reason,omitempty"`
	StartTime       *TimeOfDay        `json:"start_time,omitempty"`
	EndTime         *TimeOfDay        `json:"end_time,omitempty"`
	DurationMinutes int               `json:"duration_minutes,omitempty"`
	HourlyRate      *decimal.Decimal  `json:"hourly_rate,omitempty"`
	DailyRate       *decimal.Decimal  `json:"daily_rate,omitempty"`
	Reservations    []ConflictSummary `json:"reservations,omitempty"`
}
