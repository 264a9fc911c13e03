package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/momconnect/backend/internal/models"
)

const userColumns = `id, name, email, phone, password_hash, bio, profile_image,
	is_creator, is_verified, wallet_balance, total_views, posts_count,
	products_count, followers, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var profileImage sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Bio, &profileImage, &u.IsCreator, &u.IsVerified, &u.WalletBalance,
		&u.TotalViews, &u.PostsCount, &u.ProductsCount, &u.Followers,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if profileImage.Valid {
		u.ProfileImage = &profileImage.String
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Повторный email приводит к ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "repository.CreateUser"

	var newID string
	query := `INSERT INTO users (name, email, phone, password_hash, is_creator)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, strings.ToLower(user.Email), user.Phone, user.PasswordHash,
		user.IsCreator).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email или ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, mapRowErr(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID или ErrNotFound.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "repository.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, mapRowErr(op, err)
	}
	return u, nil
}

// UpdateUserProfile применяет частичное обновление профиля: nil-поля
// остаются без изменений. Возвращает обновлённого пользователя.
func (s *Storage) UpdateUserProfile(ctx context.Context, userID string, name, bio, profileImage *string) (*models.User, error) {
	const op = "repository.UpdateUserProfile"

	query := `UPDATE users
			  SET name = COALESCE($2, name),
			      bio = COALESCE($3, bio),
			      profile_image = COALESCE($4, profile_image),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID, name, bio, profileImage))
	if err != nil {
		return nil, mapRowErr(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новых первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "repository.ListUsers"

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetUserVerified помечает аккаунт пользователя верифицированным.
// Неизвестный пользователь приводит к ErrNotFound.
func (s *Storage) SetUserVerified(ctx context.Context, userID string) error {
	const op = "repository.SetUserVerified"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// IncrementPostsCount увеличивает счётчик постов пользователя на единицу.
func (s *Storage) IncrementPostsCount(ctx context.Context, userID string) error {
	const op = "repository.IncrementPostsCount"
	if _, err := s.DB.ExecContext(ctx,
		`UPDATE users SET posts_count = posts_count + 1 WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementProductsCount увеличивает счётчик товаров пользователя на единицу.
func (s *Storage) IncrementProductsCount(ctx context.Context, userID string) error {
	const op = "repository.IncrementProductsCount"
	if _, err := s.DB.ExecContext(ctx,
		`UPDATE users SET products_count = products_count + 1 WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
