package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/lib/password"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/services/auth"
	"github.com/momconnect/backend/internal/storage/repository"
)

type mockUserRepo struct {
	CreateFunc     func(ctx context.Context, user models.User) (string, error)
	GetFunc        func(ctx context.Context, userID string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	UpdateFunc     func(ctx context.Context, userID string, name, bio, profileImage *string) (*models.User, error)
	VerifyFunc     func(ctx context.Context, userID string) error
	ListFunc       func(ctx context.Context) ([]*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user models.User) (string, error) {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return m.GetFunc(ctx, userID)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepo) UpdateUserProfile(ctx context.Context, userID string, name, bio, profileImage *string) (*models.User, error) {
	return m.UpdateFunc(ctx, userID, name, bio, profileImage)
}

func (m *mockUserRepo) SetUserVerified(ctx context.Context, userID string) error {
	return m.VerifyFunc(ctx, userID)
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	return m.ListFunc(ctx)
}

type mockMaker struct {
	IssueAccessFunc  func(userID string) (string, error)
	IssueRefreshFunc func(userID string) (string, error)
	ParseAccessFunc  func(tokenStr string) (string, error)
	ParseRefreshFunc func(tokenStr string) (string, error)
}

func (m *mockMaker) IssueAccess(userID string) (string, error)   { return m.IssueAccessFunc(userID) }
func (m *mockMaker) IssueRefresh(userID string) (string, error)  { return m.IssueRefreshFunc(userID) }
func (m *mockMaker) ParseAccess(tokenStr string) (string, error) { return m.ParseAccessFunc(tokenStr) }
func (m *mockMaker) ParseRefresh(tokenStr string) (string, error) {
	return m.ParseRefreshFunc(tokenStr)
}

func staticMaker() *mockMaker {
	return &mockMaker{
		IssueAccessFunc:  func(userID string) (string, error) { return "access-" + userID, nil },
		IssueRefreshFunc: func(userID string) (string, error) { return "refresh-" + userID, nil },
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var storedHash string
		repo := &mockUserRepo{
			CreateFunc: func(ctx context.Context, user models.User) (string, error) {
				require.NotEqual(t, "password123", user.PasswordHash)
				storedHash = user.PasswordHash
				return "user-1", nil
			},
			GetFunc: func(ctx context.Context, userID string) (*models.User, error) {
				return &models.User{ID: userID, Name: "Anna", Email: "anna@example.com"}, nil
			},
		}

		service := auth.New(repo, staticMaker())
		tokens, user, err := service.Register(ctx, "Anna", "anna@example.com", "+700", "password123", false)
		require.NoError(t, err)

		assert.Equal(t, "access-user-1", tokens.AccessToken)
		assert.Equal(t, "refresh-user-1", tokens.RefreshToken)
		assert.Equal(t, "user-1", user.ID)
		assert.NoError(t, password.CompareHash(storedHash, "password123"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &mockUserRepo{
			CreateFunc: func(ctx context.Context, user models.User) (string, error) {
				return "", repository.ErrDuplicate
			},
		}

		service := auth.New(repo, staticMaker())
		_, _, err := service.Register(ctx, "Anna", "anna@example.com", "+700", "password123", false)
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := password.GetHash("password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		repo := &mockUserRepo{
			GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
			},
		}

		service := auth.New(repo, staticMaker())
		tokens, user, err := service.Login(ctx, "anna@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "access-user-1", tokens.AccessToken)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		unknownRepo := &mockUserRepo{
			GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return nil, repository.ErrNotFound
			},
		}
		wrongPassRepo := &mockUserRepo{
			GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{ID: "user-1", PasswordHash: hash}, nil
			},
		}

		service := auth.New(unknownRepo, staticMaker())
		_, _, errUnknown := service.Login(ctx, "ghost@example.com", "password123")

		service = auth.New(wrongPassRepo, staticMaker())
		_, _, errWrongPass := service.Login(ctx, "anna@example.com", "wrongpassword")

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, auth.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})
}

func TestRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		maker := staticMaker()
		maker.ParseRefreshFunc = func(tokenStr string) (string, error) {
			require.Equal(t, "refresh-user-1", tokenStr)
			return "user-1", nil
		}

		service := auth.New(&mockUserRepo{}, maker)
		access, err := service.Refresh("refresh-user-1")
		require.NoError(t, err)
		assert.Equal(t, "access-user-1", access)
	})
}

func TestListUsers_NoPasswordHashExposure(t *testing.T) {
	ctx := context.Background()

	repo := &mockUserRepo{
		ListFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				{ID: "user-1", Name: "Anna", PasswordHash: "bcrypt-hash"},
			}, nil
		},
	}

	service := auth.New(repo, staticMaker())
	users, err := service.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Anna", users[0].Name)
}
