package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleclinic/rtc/internal/domain"
)

// PostgresArchive writes forwarded chat messages into the same
// chatroom_messages table the HTTP layer reads from.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(ctx context.Context, dsn string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresArchive{pool: pool}, nil
}

func (a *PostgresArchive) Save(ctx context.Context, msg domain.ChatMessage) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO chatroom_messages (id, chatroom_id, sender_user_id, payload, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		msg.ID, string(msg.RoomID), msg.Sender.UserID, msg.Payload, msg.SentAt)
	return err
}

func (a *PostgresArchive) Close() {
	a.pool.Close()
}
