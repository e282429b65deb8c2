package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository implements domain.ReservationRepository
type ReservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `
	id, space_id, condominium_id, user_id, unit_id,
	reservation_date, start_minute, end_minute, duration_minutes,
	contact_name, contact_phone, contact_email,
	event_type, event_description, expected_guests,
	status, total_amount, paid_amount, payment_status,
	confirmed_at, cancelled_at, cancellation_reason,
	created_at, updated_at
`

// Create inserts res after re-checking caps and overlaps inside one
// transaction. The advisory lock serializes concurrent booking attempts for
// the same space and date across all service instances; without it two
// racing requests could both pass the conflict check.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation, caps domain.CapLimits) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	dateKey := res.ReservationDate.Format("2006-01-02")
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text), hashtext($2))`,
		res.SpaceID, dateKey,
	); err != nil {
		return fmt.Errorf("%w: failed to lock slot: %v", domain.ErrUnavailable, err)
	}

	if caps.PerDay != nil {
		count, err := r.countActiveOnDate(ctx, tx, res.SpaceID, res.ReservationDate)
		if err != nil {
			return err
		}
		if err := caps.CheckPerDay(count); err != nil {
			return err
		}
	}

	if caps.PerUserPerMonth != nil {
		count, err := r.countUserActiveInMonth(ctx, tx, res.SpaceID, res.UserID, res.ReservationDate)
		if err != nil {
			return err
		}
		if err := caps.CheckPerUserMonth(count); err != nil {
			return err
		}
	}

	conflicts, err := findConflicts(ctx, tx, res.SpaceID, res.ReservationDate, res.StartTime, res.EndTime, nil)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}

	insert := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	if _, err := tx.Exec(ctx, insert,
		res.ID,
		res.SpaceID,
		res.CondominiumID,
		res.UserID,
		res.UnitID,
		res.ReservationDate,
		res.StartTime,
		res.EndTime,
		res.DurationMinutes,
		res.ContactName,
		res.ContactPhone,
		res.ContactEmail,
		res.EventType,
		res.EventDescription,
		res.ExpectedGuests,
		res.Status,
		res.TotalAmount,
		res.PaidAmount,
		res.PaymentStatus,
		res.ConfirmedAt,
		res.CancelledAt,
		res.CancellationReason,
		res.CreatedAt,
		res.UpdatedAt,
	); err != nil {
		// The unique backstop on (space, date, start) only fires if the
		// detector above was bypassed; report it as a plain conflict.
		if isUniqueViolation(err, "reservations_slot_backstop") {
			return &domain.ConflictError{}
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit reservation: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func findConflicts(ctx context.Context, q Querier, spaceID uuid.UUID, date time.Time, start, end domain.TimeOfDay, excludeID *uuid.UUID) ([]domain.ConflictSummary, error) {
	query := `
		SELECT id, contact_name, start_minute, end_minute, status
		FROM reservations
		WHERE space_id = $1
		  AND reservation_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_minute < $4
		  AND $3 < end_minute
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY start_minute ASC
	`
	rows, err := q.Query(ctx, query, spaceID, date, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.ConflictSummary
	for rows.Next() {
		var c domain.ConflictSummary
		if err := rows.Scan(&c.ID, &c.ContactName, &c.StartTime, &c.EndTime, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

func (r *ReservationRepository) countActiveOnDate(ctx context.Context, q Querier, spaceID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM reservations
		WHERE space_id = $1
		  AND reservation_date = $2
		  AND status IN ('pending', 'confirmed')
	`
	var count int
	if err := q.QueryRow(ctx, query, spaceID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reservations for date: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) countUserActiveInMonth(ctx context.Context, q Querier, spaceID, userID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM reservations
		WHERE space_id = $1
		  AND user_id = $2
		  AND date_trunc('month', reservation_date) = date_trunc('month', $3::date)
		  AND status IN ('pending', 'confirmed')
	`
	var count int
	if err := q.QueryRow(ctx, query, spaceID, userID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count user reservations for month: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	where := []string{"condominium_id = $1"}
	args := []any{filter.CondominiumID}

	if filter.SpaceID != nil {
		args = append(args, *filter.SpaceID)
		where = append(where, fmt.Sprintf("space_id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where = append(where, fmt.Sprintf("reservation_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where = append(where, fmt.Sprintf("reservation_date <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(contact_name ILIKE $%d OR contact_phone ILIKE $%d OR coalesce(contact_email, '') ILIKE $%d OR coalesce(event_type, '') ILIKE $%d OR coalesce(event_description, '') ILIKE $%d)",
			n, n, n, n, n))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf("LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	offsetClause := fmt.Sprintf("OFFSET $%d", len(args))

	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY reservation_date DESC, start_minute ASC
		` + limitClause + ` ` + offsetClause

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepository) ListActiveForDate(ctx context.Context, spaceID uuid.UUID, date time.Time) ([]domain.ConflictSummary, error) {
	query := `
		SELECT id, contact_name, start_minute, end_minute, status
		FROM reservations
		WHERE space_id = $1
		  AND reservation_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_minute ASC
	`
	rows, err := r.pool.Query(ctx, query, spaceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for date: %w", err)
	}
	defer rows.Close()

	var out []domain.ConflictSummary
	for rows.Next() {
		var c domain.ConflictSummary
		if err := rows.Scan(&c.ID, &c.ContactName, &c.StartTime, &c.EndTime, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Confirm applies pending -> confirmed as a compare-and-swap so two
// concurrent confirmations cannot both win.
func (r *ReservationRepository) Confirm(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'confirmed', confirmed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyTransitionFailure(ctx, id)
		}
		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	return res, nil
}

// Cancel applies {pending,confirmed} -> cancelled. The time guard keeps a
// reservation cancellable only before its start instant.
func (r *ReservationRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time, reason string) (*domain.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3, updated_at = $2
		WHERE id = $1
		  AND status IN ('pending', 'confirmed')
		  AND (reservation_date + make_interval(mins => start_minute::int)) > $2
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id, at, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyTransitionFailure(ctx, id)
		}
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	return res, nil
}

// Reject is an administrator-only terminal write from pending.
func (r *ReservationRepository) Reject(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'rejected', updated_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyTransitionFailure(ctx, id)
		}
		return nil, fmt.Errorf("failed to reject reservation: %w", err)
	}
	return res, nil
}

// Complete is an administrator-only terminal write from confirmed.
func (r *ReservationRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'completed', updated_at = $2
		WHERE id = $1 AND status = 'confirmed'
		RETURNING ` + reservationColumns
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyTransitionFailure(ctx, id)
		}
		return nil, fmt.Errorf("failed to complete reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'completed', updated_at = $1
		WHERE status = 'confirmed'
		  AND (reservation_date + make_interval(mins => end_minute::int)) <= $1
	`
	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep elapsed reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// classifyTransitionFailure distinguishes a missing reservation from one in
// a state that does not permit the transition.
func (r *ReservationRepository) classifyTransitionFailure(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		return fmt.Errorf("failed to read reservation status: %w", err)
	}
	return fmt.Errorf("%w: reservation is %s", domain.ErrInvalidTransition, status)
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.SpaceID,
		&res.CondominiumID,
		&res.UserID,
		&res.UnitID,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&res.DurationMinutes,
		&res.ContactName,
		&res.ContactPhone,
		&res.ContactEmail,
		&res.EventType,
		&res.EventDescription,
		&res.ExpectedGuests,
		&res.Status,
		&res.TotalAmount,
		&res.PaidAmount,
		&res.PaymentStatus,
		&res.ConfirmedAt,
		&res.CancelledAt,
		&res.CancellationReason,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
