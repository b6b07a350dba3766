package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/chatnest/chatnest-server/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// MessageLog implements storage.MessageLog on PostgreSQL.
//
// The participant pair is stored sorted (user_a < user_b) so that a single
// composite index serves lookups regardless of which side is asking.
type MessageLog struct {
	db *sql.DB
}

func NewMessageLog(db *sql.DB) *MessageLog {
	return &MessageLog{db: db}
}

// Open connects to PostgreSQL with the pool settings used across the app.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func sortPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

func (s *MessageLog) Append(ctx context.Context, msg *models.Message) (string, error) {
	a, b := sortPair(msg.UserA, msg.UserB)
	query := `
		INSERT INTO messages (sender_id, user_a, user_b, body, audio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, msg.SenderID, a, b, msg.Body, msg.Audio).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrPersistenceFailure, err)
	}
	return msg.ID, nil
}

func (s *MessageLog) QueryByPair(ctx context.Context, userA, userB string) ([]models.Message, error) {
	a, b := sortPair(userA, userB)
	query := `
		SELECT id, sender_id, user_a, user_b, body, audio, created_at, updated_at
		FROM messages
		WHERE user_a = $1 AND user_b = $2
		ORDER BY updated_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.UserA, &m.UserB, &m.Body, &m.Audio, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *MessageLog) DeleteByPair(ctx context.Context, userA, userB string) (int64, error) {
	a, b := sortPair(userA, userB)
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE user_a = $1 AND user_b = $2`, a, b)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
