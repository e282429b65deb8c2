package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SpaceConfigRepository implements domain.SpaceConfigRepository
type SpaceConfigRepository struct {
	pool *pgxpool.Pool
}

// NewSpaceConfigRepository creates a new space config repository
func NewSpaceConfigRepository(pool *pgxpool.Pool) *SpaceConfigRepository {
	return &SpaceConfigRepository{pool: pool}
}

const spaceConfigColumns = `
	id, space_id, condominium_id, available_days,
	start_minute, end_minute, duration_minutes,
	min_advance_hours, max_advance_days,
	max_reservations_per_day, max_reservations_per_user_per_month,
	hourly_rate, daily_rate, active, created_at, updated_at
`

func (r *SpaceConfigRepository) Create(ctx context.Context, cfg *domain.SpaceConfig) error {
	query := `
		INSERT INTO space_configs (` + spaceConfigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		cfg.ID,
		cfg.SpaceID,
		cfg.CondominiumID,
		cfg.AvailableDays,
		cfg.StartTime,
		cfg.EndTime,
		cfg.DurationMinutes,
		cfg.MinAdvanceHours,
		cfg.MaxAdvanceDays,
		cfg.MaxReservationsPerDay,
		cfg.MaxReservationsPerUserPerMonth,
		nullDecimal(cfg.HourlyRate),
		nullDecimal(cfg.DailyRate),
		cfg.Active,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "space_configs_one_active_per_space") {
			return domain.ErrAlreadyConfigured
		}
		return fmt.Errorf("failed to create space config: %w", err)
	}
	return nil
}

func (r *SpaceConfigRepository) GetActiveBySpace(ctx context.Context, spaceID uuid.UUID) (*domain.SpaceConfig, error) {
	query := `
		SELECT ` + spaceConfigColumns + `
		FROM space_configs
		WHERE space_id = $1 AND active
	`
	cfg, err := scanSpaceConfig(r.pool.QueryRow(ctx, query, spaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to get active space config: %w", err)
	}
	return cfg, nil
}

func (r *SpaceConfigRepository) Update(ctx context.Context, cfg *domain.SpaceConfig) error {
	query := `
		UPDATE space_configs
		SET available_days = $2,
		    start_minute = $3,
		    end_minute = $4,
		    duration_minutes = $5,
		    min_advance_hours = $6,
		    max_advance_days = $7,
		    max_reservations_per_day = $8,
		    max_reservations_per_user_per_month = $9,
		    hourly_rate = $10,
		    daily_rate = $11,
		    updated_at = $12
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		cfg.ID,
		cfg.AvailableDays,
		cfg.StartTime,
		cfg.EndTime,
		cfg.DurationMinutes,
		cfg.MinAdvanceHours,
		cfg.MaxAdvanceDays,
		cfg.MaxReservationsPerDay,
		cfg.MaxReservationsPerUserPerMonth,
		nullDecimal(cfg.HourlyRate),
		nullDecimal(cfg.DailyRate),
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update space config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *SpaceConfigRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE space_configs
		SET active = false, updated_at = now()
		WHERE id = $1 AND active
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate space config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func scanSpaceConfig(row pgx.Row) (*domain.SpaceConfig, error) {
	var (
		cfg           domain.SpaceConfig
		hourly, daily decimal.NullDecimal
	)
	err := row.Scan(
		&cfg.ID,
		&cfg.SpaceID,
		&cfg.CondominiumID,
		&cfg.AvailableDays,
		&cfg.StartTime,
		&cfg.EndTime,
		&cfg.DurationMinutes,
		&cfg.MinAdvanceHours,
		&cfg.MaxAdvanceDays,
		&cfg.MaxReservationsPerDay,
		&cfg.MaxReservationsPerUserPerMonth,
		&hourly,
		&daily,
		&cfg.Active,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if hourly.Valid {
		cfg.HourlyRate = &hourly.Decimal
	}
	if daily.Valid {
		cfg.DailyRate = &daily.Decimal
	}
	return &cfg, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
