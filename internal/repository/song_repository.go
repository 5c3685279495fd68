package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-vault/internal/domain"
)

// SongRepository encapsulates song persistence. Every lookup is scoped to a band.
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	GetByID(ctx context.Context, bandID, id string) (*domain.Song, error)
	ListByBand(ctx context.Context, bandID string) ([]domain.Song, error)
	UpdateLyrics(ctx context.Context, bandID, id string, lyrics *string) (*domain.Song, error)
	Delete(ctx context.Context, bandID, id string) error
}

type songRepository struct {
	pool *pgxpool.Pool
}

// NewSongRepository instantiates repository.
func NewSongRepository(pool *pgxpool.Pool) SongRepository {
	return &songRepository{pool: pool}
}

const songColumns = `id, band_id, title, audio_url, lyrics, created_at, updated_at`

func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	const query = `
        INSERT INTO songs (band_id, title, audio_url, lyrics)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		song.BandID,
		song.Title,
		song.AudioURL,
		song.Lyrics,
	).Scan(&song.ID, &song.CreatedAt, &song.UpdatedAt)
}

func (r *songRepository) GetByID(ctx context.Context, bandID, id string) (*domain.Song, error) {
	const query = `SELECT ` + songColumns + ` FROM songs WHERE id=$1 AND band_id=$2`
	var song domain.Song
	if err := scanSong(r.pool.QueryRow(ctx, query, id, bandID), &song); err != nil {
		return nil, notFound(err)
	}
	return &song, nil
}

func (r *songRepository) ListByBand(ctx context.Context, bandID string) ([]domain.Song, error) {
	const query = `SELECT ` + songColumns + ` FROM songs WHERE band_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Song{}
	for rows.Next() {
		var song domain.Song
		if err := scanSong(rows, &song); err != nil {
			return nil, err
		}
		result = append(result, song)
	}
	return result, rows.Err()
}

func (r *songRepository) UpdateLyrics(ctx context.Context, bandID, id string, lyrics *string) (*domain.Song, error) {
	const query = `
        UPDATE songs SET lyrics=$1, updated_at=NOW()
        WHERE id=$2 AND band_id=$3
        RETURNING ` + songColumns
	var song domain.Song
	if err := scanSong(r.pool.QueryRow(ctx, query, lyrics, id, bandID), &song); err != nil {
		return nil, notFound(err)
	}
	return &song, nil
}

func (r *songRepository) Delete(ctx context.Context, bandID, id string) error {
	const query = `DELETE FROM songs WHERE id=$1 AND band_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, bandID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner, song *domain.Song) error {
	return row.Scan(
		&song.ID,
		&song.BandID,
		&song.Title,
		&song.AudioURL,
		&song.Lyrics,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
}
