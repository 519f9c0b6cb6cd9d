package sqlite

import (
	"context"
	"fmt"
	"time"

	"wellness/internal/chat"
)

// SaveMessage appends a chat message to the owner's history.
func (s *Store) SaveMessage(ctx context.Context, owner string, m chat.Message) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO chat_messages(id, owner, contact_id, kind, text, sent_at) VALUES(?, ?, ?, ?, ?, ?)`,
		m.ID, owner, m.ContactID, string(m.Kind), m.Text, m.SentAt.UTC())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns the owner's chat history, oldest first.
func (s *Store) ListMessages(ctx context.Context, owner string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, kind, text, sent_at FROM chat_messages WHERE owner = ? ORDER BY sent_at, rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := []chat.Message{}
	for rows.Next() {
		var (
			m    chat.Message
			kind string
			at   time.Time
		)
		if err := rows.Scan(&m.ID, &m.ContactID, &kind, &m.Text, &at); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Kind = chat.Kind(kind)
		m.SentAt = at.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
