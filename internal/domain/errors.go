package domain

import "errors"

// Domain errors
var (
	// Configuration errors
	ErrSpaceNotFound     = errors.New("space not found")
	ErrNotReservable     = errors.New("space is not reservable")
	ErrNotConfigured     = errors.New("space has no active reservation configuration")
	ErrAlreadyConfigured = errors.New("space already has an active configuration")
	ErrConfigNotFound    = errors.New("configuration not found")

	// Admission-rule violations
	ErrTooSoon             = errors.New("reservation starts too soon")
	ErrTooFarAhead         = errors.New("reservation is too far ahead")
	ErrDayUnavailable      = errors.New("space is not available on this day")
	ErrOutsideWindow       = errors.New("reservation is outside the available time window")
	ErrTooShort            = errors.New("reservation is shorter than the minimum duration")
	ErrDailyLimitReached   = errors.New("daily reservation limit reached for this space")
	ErrMonthlyLimitReached = errors.New("monthly reservation limit reached for this user")

	// Conflict
	ErrConflict = errors.New("reservation conflicts with an existing reservation")

	// State errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("caller has no rights over this reservation")

	// Infrastructure
	ErrUnavailable = errors.New("storage unavailable")
)

// ConflictError reports the reservations that overlap a candidate slot.
type ConflictError struct {
	Conflicts []ConflictSummary
}

func (e *ConflictError) Error() string { return ErrConflict.Error() }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IsAdmissionError checks if the error is an admission-rule violation.
func IsAdmissionError(err error) bool {
	return errors.Is(err, ErrTooSoon) ||
		errors.Is(err, ErrTooFarAhead) ||
		errors.Is(err, ErrDayUnavailable) ||
		errors.Is(err, ErrOutsideWindow) ||
		errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrDailyLimitReached) ||
		errors.Is(err, ErrMonthlyLimitReached)
}

// IsNotFoundError checks if the error is a not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSpaceNotFound) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}

// IsConflictError checks if the error is a conflict-class error.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadyConfigured) ||
		errors.Is(err, ErrInvalidTransition)
}

// ErrorCode returns the wire code for a domain error, or "" when the error
// is not a domain error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSpaceNotFound):
		return "space_not_found"
	case errors.Is(err, ErrNotReservable):
		return "not_reservable"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrAlreadyConfigured):
		return "already_configured"
	case errors.Is(err, ErrConfigNotFound):
		return "config_not_found"
	case errors.Is(err, ErrTooSoon):
		return "too_soon"
	case errors.Is(err, ErrTooFarAhead):
		return "too_far_ahead"
	case errors.Is(err, ErrDayUnavailable):
		return "day_unavailable"
	case errors.Is(err, ErrOutsideWindow):
		return "outside_window"
	case errors.Is(err, ErrTooShort):
		return "too_short"
	case errors.Is(err, ErrDailyLimitReached):
		return "daily_limit_reached"
	case errors.Is(err, ErrMonthlyLimitReached):
		return "monthly_limit_reached"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrReservationNotFound):
		return "reservation_not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	}
	return ""
}
