package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_Active(t *testing.T) {
	for status, want := range map[ReservationStatus]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCancelled: false,
		StatusCompleted: false,
		StatusRejected:  false,
	} {
		r := Reservation{Status: status}
		assert.Equal(t, want, r.Active(), "status %s", status)
	}
}

func TestReservation_Instants(t *testing.T) {
	r := Reservation{
		ReservationDate: day(2026, 3, 6),
		StartTime:       14 * 60,
		EndTime:         18 * 60,
	}

	assert.Equal(t, time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC), r.StartInstant())
	assert.Equal(t, time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC), r.EndInstant())
}

func TestReservation_CanBeCancelled(t *testing.T) {
	r := Reservation{
		Status:          StatusConfirmed,
		ReservationDate: day(2026, 3, 6),
		StartTime:       14 * 60,
		EndTime:         18 * 60,
	}

	t.Run("before the start instant", func(t *testing.T) {
		assert.True(t, r.CanBeCancelled(time.Date(2026, 3, 6, 13, 59, 0, 0, time.UTC)))
	})

	t.Run("at the start instant", func(t *testing.T) {
		assert.False(t, r.CanBeCancelled(r.StartInstant()))
	})

	t.Run("after the start instant", func(t *testing.T) {
		assert.False(t, r.CanBeCancelled(time.Date(2026, 3, 6, 15, 0, 0, 0, time.UTC)))
	})

	t.Run("terminal status", func(t *testing.T) {
		done := r
		done.Status = StatusCompleted
		assert.False(t, done.CanBeCancelled(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestReservation_CanBeConfirmed(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).CanBeConfirmed())
	assert.False(t, (&Reservation{Status: StatusConfirmed}).CanBeConfirmed())
	assert.False(t, (&Reservation{Status: StatusCancelled}).CanBeConfirmed())
}

func TestCapLimits_Check(t *testing.T) {
	perDay := 2
	perMonth := 4
	caps := CapLimits{PerDay: &perDay, PerUserPerMonth: &perMonth}

	t.Run("under the daily cap", func(t *testing.T) {
		assert.NoError(t, caps.CheckPerDay(1))
	})

	t.Run("at the daily cap", func(t *testing.T) {
		err := caps.CheckPerDay(2)
		assert.ErrorIs(t, err, ErrDailyLimitReached)
		assert.Contains(t, err.Error(), "at most 2 reservations per day")
	})

	t.Run("under the monthly cap", func(t *testing.T) {
		assert.NoError(t, caps.CheckPerUserMonth(3))
	})

	t.Run("at the monthly cap", func(t *testing.T) {
		err := caps.CheckPerUserMonth(4)
		assert.ErrorIs(t, err, ErrMonthlyLimitReached)
		assert.Contains(t, err.Error(), "at most 4 reservations per month")
	})

	t.Run("unset caps never limit", func(t *testing.T) {
		open := CapLimits{}
		assert.NoError(t, open.CheckPerDay(100))
		assert.NoError(t, open.CheckPerUserMonth(100))
	})
}

func TestReservationCreate_Date(t *testing.T) {
	in := ReservationCreate{ReservationDate: "2026-03-06"}
	d, err := in.Date()
	assert.NoError(t, err)
	assert.Equal(t, day(2026, 3, 6), d)

	in.ReservationDate = "06/03/2026"
	_, err = in.Date()
	assert.Error(t, err)
}
