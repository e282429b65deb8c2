package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriellgomess/condominio-app-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SpaceRepository implements domain.SpaceRepository. Spaces are owned by the
// structure-management service; this repository only reads them.
type SpaceRepository struct {
	pool *pgxpool.Pool
}

// NewSpaceRepository creates a new space repository
func NewSpaceRepository(pool *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

func (r *SpaceRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	query := `
		SELECT id, condominium_id, name, reservable, active
		FROM spaces
		WHERE id = $1
	`
	var s domain.Space
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.CondominiumID,
		&s.Name,
		&s.Reservable,
		&s.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return &s, nil
}
