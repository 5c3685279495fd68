package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/band-vault/internal/domain"
)

// MessageRepository manages band and song chat messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// List returns messages of the band in insertion order. A nil songID
	// selects the band-wide chat only.
	List(ctx context.Context, bandID string, songID *string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        WITH inserted AS (
            INSERT INTO messages (band_id, song_id, user_id, text)
            VALUES ($1,$2,$3,$4)
            RETURNING id, user_id, created_at
        )
        SELECT inserted.id, inserted.created_at, u.id, u.name, u.email
        FROM inserted JOIN users u ON u.id = inserted.user_id`
	return r.pool.QueryRow(ctx, query,
		msg.BandID,
		msg.SongID,
		msg.UserID,
		msg.Text,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.User.ID, &msg.User.Name, &msg.User.Email)
}

func (r *messageRepository) List(ctx context.Context, bandID string, songID *string) ([]domain.Message, error) {
	const query = `
        SELECT m.id, m.band_id, m.song_id, m.user_id, m.text, m.created_at, u.id, u.name, u.email
        FROM messages m JOIN users u ON u.id = m.user_id
        WHERE m.band_id=$1 AND m.song_id IS NOT DISTINCT FROM $2
        ORDER BY m.created_at ASC, m.seq ASC`
	rows, err := r.pool.Query(ctx, query, bandID, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.BandID,
			&msg.SongID,
			&msg.UserID,
			&msg.Text,
			&msg.CreatedAt,
			&msg.User.ID,
			&msg.User.Name,
			&msg.User.Email,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
