package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-vault/internal/domain"
)

// BandRepository manages band persistence.
type BandRepository interface {
	Create(ctx context.Context, band *domain.Band) error
	GetByID(ctx context.Context, id string) (*domain.Band, error)
}

type bandRepository struct {
	pool *pgxpool.Pool
}

// NewBandRepository builds the repository.
func NewBandRepository(pool *pgxpool.Pool) BandRepository {
	return &bandRepository{pool: pool}
}

func (r *bandRepository) Create(ctx context.Context, band *domain.Band) error {
	const query = `
        INSERT INTO bands (name)
        VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, band.Name).Scan(&band.ID, &band.CreatedAt)
}

func (r *bandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	const query = `SELECT id, name, created_at FROM bands WHERE id=$1`
	var band domain.Band
	if err := r.pool.QueryRow(ctx, query, id).Scan(&band.ID, &band.Name, &band.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &band, nil
}
