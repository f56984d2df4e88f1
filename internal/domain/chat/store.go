package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	History(ctx context.Context, userID string, limit int) ([]Message, error)
	Save(ctx context.Context, msg Message) (*Message, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// History returns the newest limit messages for the user, oldest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, message, is_from_user, context, created_at
    FROM (
      SELECT id, user_id, message, is_from_user, context, created_at
      FROM chat_messages
      WHERE user_id = $1
      ORDER BY created_at DESC, id DESC
      LIMIT $2
    ) recent
    ORDER BY created_at ASC, id ASC
  `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.IsFromUser, &m.Context, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) Save(ctx context.Context, msg Message) (*Message, error) {
	var contextArg any
	if len(msg.Context) > 0 && string(msg.Context) != "null" {
		contextArg = []byte(msg.Context)
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO chat_messages (user_id, message, is_from_user, context)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, msg.UserID, msg.Message, msg.IsFromUser, contextArg).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
