// Package chat содержит бизнес-логику диалогов: поиск-или-создание чата
// для пары участников, чтение истории и отправку сообщений с последующей
// рассылкой в комнату чата.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

// Repository описывает контракт работы с чатами в хранилище.
type Repository interface {
	FindChatByParticipants(ctx context.Context, userA, userB string) (string, error)
	CreateChat(ctx context.Context, userA, userB string) (string, error)
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	ListChatsByUser(ctx context.Context, userID string) ([]*models.Chat, error)
	CreateMessage(ctx context.Context, chatID, senderID, content, msgType string) (*models.Message, error)
	ListMessages(ctx context.Context, chatID string) ([]*models.Message, error)
}

// Notifier рассылает событие всем подключённым клиентам комнаты.
// Доставка fire-and-forget: без подтверждений и повторов.
type Notifier interface {
	BroadcastToRoom(room, event string, payload any)
}

// Service реализует операции чатов поверх хранилища и рассылки.
type Service struct {
	repo     Repository
	notifier Notifier
}

// New создает новый экземпляр Service.
func New(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

// GetOrCreateChat возвращает чат для неупорядоченной пары участников,
// создавая его только при отсутствии. Оба порядка аргументов дают один
// и тот же чат; гонка двух создателей разрешается повторным поиском.
func (s *Service) GetOrCreateChat(ctx context.Context, userID, participantID string) (*models.Chat, error) {
	const op = "chat.GetOrCreateChat"

	chatID, err := s.repo.FindChatByParticipants(ctx, userID, participantID)
	if errors.Is(err, repository.ErrNotFound) {
		chatID, err = s.repo.CreateChat(ctx, userID, participantID)
		if errors.Is(err, repository.ErrDuplicate) {
			chatID, err = s.repo.FindChatByParticipants(ctx, userID, participantID)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.repo.GetChat(ctx, chatID)
}

// ListChats возвращает чаты пользователя, недавно обновлённые первыми.
func (s *Service) ListChats(ctx context.Context, userID string) ([]*models.Chat, error) {
	return s.repo.ListChatsByUser(ctx, userID)
}

// ListMessages возвращает сообщения чата в порядке создания.
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]*models.Message, error) {
	return s.repo.ListMessages(ctx, chatID)
}

// SendMessage сохраняет сообщение и затем рассылает его в комнату чата.
// Рассылка выполняется только после успешной записи.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, content, msgType string) (*models.Message, error) {
	const op = "chat.SendMessage"

	if msgType == "" {
		msgType = "text"
	}
	msg, err := s.repo.CreateMessage(ctx, chatID, senderID, content, msgType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.BroadcastToRoom(chatID, "receive_message", msg)
	return msg, nil
}
