package mysql

import (
	"context"
	"database/sql"
	"time"

	"stayhub/internal/domain"
)

func scanMessage(s scanner) (domain.ChatMessage, error) {
	var m domain.ChatMessage
	var post sql.NullInt64
	var sender string
	if err := s.Scan(
		&m.ID, &m.CorporateID, &m.HotelID, &post, &sender, &m.SenderAccountID, &m.Body,
		&m.IsRead, &m.CreatedAt,
	); err != nil {
		return domain.ChatMessage{}, translate(err)
	}
	m.PostID = ptrInt64(post)
	m.SenderType = domain.IdentityType(sender)
	return m, nil
}

func (r *Repo) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	id, err := r.insert(ctx, insertMessageSQL,
		m.CorporateID,
		m.HotelID,
		valInt64(m.PostID),
		string(m.SenderType),
		m.SenderAccountID,
		m.Body,
	)
	if err != nil {
		return err
	}
	m.ID = id
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

// conversation returns the WHERE clause and args selecting the messages of key.
func conversation(key domain.ConversationKey) (string, []any) {
	cond := " WHERE corporate_id = ? AND hotel_id = ?"
	args := []any{key.CorporateID, key.HotelID}
	if key.PostID != nil {
		cond += " AND post_id = ?"
		args = append(args, *key.PostID)
	}
	return cond, args
}

func (r *Repo) History(ctx context.Context, key domain.ConversationKey) ([]domain.ChatMessage, error) {
	cond, args := conversation(key)
	return r.messages(ctx, "SELECT"+messageColumns+cond+" ORDER BY created_at ASC, id ASC", args...)
}

func (r *Repo) MarkRead(ctx context.Context, key domain.ConversationKey, reader domain.IdentityType) error {
	cond, args := conversation(key)
	args = append(args, string(reader))
	_, err := r.db.ExecContext(ctx, "UPDATE chat_messages SET is_read = 1"+cond+" AND sender_type <> ? AND is_read = 0", args...)
	return translate(err)
}

// Inbox lists one row per conversation partner of the viewer's profile.
func (r *Repo) Inbox(ctx context.Context, viewer domain.IdentityType, profileID int64) ([]domain.Conversation, error) {
	q := corporateInboxSQL
	if viewer == domain.IdentityHotel {
		q = hotelInboxSQL
	}
	rows, err := r.db.QueryContext(ctx, q, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Conversation{}
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.PartnerID, &c.PartnerName, &c.LastMessage, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PostMessages returns the messages attached to a post, narrowed to one
// corporate party when corporateID is set.
func (r *Repo) PostMessages(ctx context.Context, postID int64, corporateID *int64) ([]domain.ChatMessage, error) {
	cond := " WHERE post_id = ?"
	args := []any{postID}
	if corporateID != nil {
		cond += " AND corporate_id = ?"
		args = append(args, *corporateID)
	}
	return r.messages(ctx, "SELECT"+messageColumns+cond+" ORDER BY created_at ASC, id ASC", args...)
}

func (r *Repo) messages(ctx context.Context, q string, args ...any) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
