package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// CreatePost сохраняет пост и возвращает его вместе с именем автора.
func (s *Storage) CreatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	const op = "repository.CreatePost"

	query := `INSERT INTO posts (user_id, content, image)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		p.UserID, p.Content, p.Image).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id = $1`, p.UserID).Scan(&p.AuthorName); err != nil {
		return nil, mapRowErr(op, err)
	}
	return &p, nil
}

// ListPosts возвращает посты с количеством лайков, новые первыми.
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	const op = "repository.ListPosts"

	query := `SELECT p.id, p.user_id, u.name, p.content, p.image,
			      (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
			      p.created_at
			  FROM posts p JOIN users u ON u.id = p.user_id
			  ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		p := &models.Post{}
		var image sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.AuthorName, &p.Content,
			&image, &p.LikesCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if image.Valid {
			p.Image = &image.String
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateComment сохраняет комментарий к посту и возвращает его вместе
// с именем автора. Комментарий к несуществующему посту приводит к ErrNotFound.
func (s *Storage) CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	const op = "repository.CreateComment"

	query := `INSERT INTO post_comments (post_id, user_id, text)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		c.PostID, c.UserID, c.Text).Scan(&c.ID, &c.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id = $1`, c.UserID).Scan(&c.AuthorName); err != nil {
		return nil, mapRowErr(op, err)
	}
	return &c, nil
}

// ToggleLike переключает лайк пользователя на посте одним атомарным запросом:
// конкурентные лайки разных пользователей не теряют обновлений.
// Возвращает true, если в результате лайк установлен.
// Лайк несуществующего поста приводит к ErrNotFound.
func (s *Storage) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	const op = "repository.ToggleLike"

	query := `WITH removed AS (
			      DELETE FROM post_likes
			      WHERE post_id = $1 AND user_id = $2
			      RETURNING 1
			  ), added AS (
			      INSERT INTO post_likes (post_id, user_id)
			      SELECT $1, $2
			      WHERE NOT EXISTS (SELECT 1 FROM removed)
			      RETURNING 1
			  )
			  SELECT EXISTS (SELECT 1 FROM added);`
	var liked bool
	if err := s.DB.QueryRowContext(ctx, query, postID, userID).Scan(&liked); err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return liked, nil
}
