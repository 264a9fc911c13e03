// Package auth содержит бизнес-логику регистрации, входа, обновления
// токенов и профиля пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/momconnect/backend/internal/lib/jwt"
	"github.com/momconnect/backend/internal/lib/password"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при любом провале входа: ответ не
// различает "пользователь не найден" и "неверный пароль", чтобы исключить
// перечисление аккаунтов.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken возвращается при регистрации на занятый email.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository описывает контракт работы с пользователями в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, name, bio, profileImage *string) (*models.User, error)
	SetUserVerified(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// TokenPair — пара токенов, выдаваемая при регистрации и входе.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service отвечает за регистрацию, авторизацию и жизненный цикл токенов.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля и выдаёт пару токенов.
// Повторный email приводит к ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, phone, rawPassword string, isCreator bool) (*TokenPair, *models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		IsCreator:    isCreator,
	}
	newID, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.users.GetUser(ctx, newID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	tokens, err := s.issuePair(newID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return tokens, created, nil
}

// Login проверяет пароль пользователя и выдаёт пару токенов.
// Отсутствующий email и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*TokenPair, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return tokens, user, nil
}

// Refresh проверяет refresh-токен и выпускает новый access-токен.
// Сам refresh-токен не ротируется и действует до истечения срока.
func (s *Service) Refresh(refreshToken string) (string, error) {
	userID, err := s.jwtMaker.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	return s.jwtMaker.IssueAccess(userID)
}

// ValidateAccess проверяет access-токен и возвращает ID пользователя.
// Существование пользователя здесь не перепроверяется: обработчику,
// которому нужен живой профиль, следует загрузить его самостоятельно.
func (s *Service) ValidateAccess(tokenStr string) (string, error) {
	return s.jwtMaker.ParseAccess(tokenStr)
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// VerifyUser помечает аккаунт пользователя верифицированным.
func (s *Service) VerifyUser(ctx context.Context, userID string) error {
	return s.users.SetUserVerified(ctx, userID)
}

// UpdateProfile применяет частичное обновление профиля: nil-поля не меняются.
func (s *Service) UpdateProfile(ctx context.Context, userID string, name, bio, profileImage *string) (*models.User, error) {
	return s.users.UpdateUserProfile(ctx, userID, name, bio, profileImage)
}

// ListUsers возвращает внешние представления всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]*models.PublicUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

func (s *Service) issuePair(userID string) (*TokenPair, error) {
	access, err := s.jwtMaker.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
