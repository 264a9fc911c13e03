package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// Участники чата хранятся в канонической паре (participant_a < participant_b),
// поэтому пара уникальна без учёта порядка аргументов.

// FindChatByParticipants ищет чат по неупорядоченной паре участников.
// Возвращает ErrNotFound, если такого чата нет.
func (s *Storage) FindChatByParticipants(ctx context.Context, userA, userB string) (string, error) {
	const op = "repository.FindChatByParticipants"

	var chatID string
	query := `SELECT id FROM chats
			  WHERE participant_a = LEAST($1::uuid, $2::uuid)
			    AND participant_b = GREATEST($1::uuid, $2::uuid)`
	if err := s.DB.QueryRowContext(ctx, query, userA, userB).Scan(&chatID); err != nil {
		return "", mapRowErr(op, err)
	}
	return chatID, nil
}

// CreateChat создаёт чат для пары участников и возвращает его ID.
// Повторное создание той же пары приводит к ErrDuplicate.
func (s *Storage) CreateChat(ctx context.Context, userA, userB string) (string, error) {
	const op = "repository.CreateChat"

	var newID string
	query := `INSERT INTO chats (participant_a, participant_b)
			  VALUES (LEAST($1::uuid, $2::uuid), GREATEST($1::uuid, $2::uuid))
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, userA, userB).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetChat возвращает чат с участниками и последним сообщением.
func (s *Storage) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	const op = "repository.GetChat"

	query := `SELECT c.id, c.participant_a, c.participant_b, c.last_message_id, c.updated_at
			  FROM chats c WHERE c.id = $1`
	var a, b string
	var lastMessageID sql.NullString
	chat := &models.Chat{}
	if err := s.DB.QueryRowContext(ctx, query, chatID).Scan(
		&chat.ID, &a, &b, &lastMessageID, &chat.UpdatedAt); err != nil {
		return nil, mapRowErr(op, err)
	}

	for _, id := range []string{a, b} {
		u, err := s.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		chat.Participants = append(chat.Participants, u.Public())
	}
	if lastMessageID.Valid {
		msg, err := s.getMessage(ctx, lastMessageID.String)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		chat.LastMessage = msg
	}
	return chat, nil
}

// ListChatsByUser возвращает чаты с участием пользователя,
// недавно обновлённые первыми.
func (s *Storage) ListChatsByUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	const op = "repository.ListChatsByUser"

	query := `SELECT id FROM chats
			  WHERE participant_a = $1 OR participant_b = $1
			  ORDER BY updated_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Chat
	for _, id := range ids {
		chat, err := s.GetChat(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, chat)
	}
	return result, nil
}

const messageColumns = `m.id, m.chat_id, m.sender_id, u.name, m.content, m.type, m.created_at`

func (s *Storage) getMessage(ctx context.Context, messageID string) (*models.Message, error) {
	const op = "repository.getMessage"

	query := `SELECT ` + messageColumns + `
			  FROM messages m JOIN users u ON u.id = m.sender_id
			  WHERE m.id = $1`
	msg := &models.Message{}
	if err := s.DB.QueryRowContext(ctx, query, messageID).Scan(&msg.ID, &msg.ChatID,
		&msg.SenderID, &msg.SenderName, &msg.Content, &msg.Type, &msg.CreatedAt); err != nil {
		return nil, mapRowErr(op, err)
	}
	return msg, nil
}

// CreateMessage сохраняет сообщение и обновляет указатель last_message чата.
// Возвращает сообщение с именем отправителя для доставки клиентам.
func (s *Storage) CreateMessage(ctx context.Context, chatID, senderID, content, msgType string) (*models.Message, error) {
	const op = "repository.CreateMessage"

	var newID string
	query := `INSERT INTO messages (chat_id, sender_id, content, type)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, chatID, senderID, content, msgType).Scan(&newID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE chats SET last_message_id = $2, updated_at = now() WHERE id = $1`,
		chatID, newID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msg, err := s.getMessage(ctx, newID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// ListMessages возвращает сообщения чата в порядке создания.
func (s *Storage) ListMessages(ctx context.Context, chatID string) ([]*models.Message, error) {
	const op = "repository.ListMessages"

	query := `SELECT ` + messageColumns + `
			  FROM messages m JOIN users u ON u.id = m.sender_id
			  WHERE m.chat_id = $1
			  ORDER BY m.created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.SenderName,
			&msg.Content, &msg.Type, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
