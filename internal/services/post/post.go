// Package post содержит бизнес-логику ленты сообщества.
package post

import (
	"context"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// Repository описывает контракт работы с постами в хранилище.
type Repository interface {
	CreatePost(ctx context.Context, p models.Post) (*models.Post, error)
	ListPosts(ctx context.Context) ([]*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	IncrementPostsCount(ctx context.Context, userID string) error
}

// Service реализует операции ленты.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create сохраняет пост и увеличивает счётчик постов автора.
func (s *Service) Create(ctx context.Context, p models.Post) (*models.Post, error) {
	const op = "post.Create"

	created, err := s.repo.CreatePost(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.IncrementPostsCount(ctx, p.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// List возвращает посты, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Post, error) {
	return s.repo.ListPosts(ctx)
}

// ToggleLike переключает лайк пользователя на посте.
// Возвращает true, если лайк в результате установлен.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	return s.repo.ToggleLike(ctx, postID, userID)
}

// AddComment сохраняет комментарий пользователя к посту.
func (s *Service) AddComment(ctx context.Context, postID, userID, text string) (*models.Comment, error) {
	return s.repo.CreateComment(ctx, models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	})
}
