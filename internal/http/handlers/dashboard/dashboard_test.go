package dashboard_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/http/handlers/dashboard"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

type mockService struct {
	GetUserFunc func(ctx context.Context, userID string) (*models.User, error)
}

func (m *mockService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return m.GetUserFunc(ctx, userID)
}

type mockCounter struct {
	CountFunc func(ctx context.Context, userID string) (int, error)
}

func (m *mockCounter) CountSubscriptionsByUser(ctx context.Context, userID string) (int, error) {
	return m.CountFunc(ctx, userID)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

const dashUserID = "5c0f9df5-96ad-4b9c-9c0e-3d0a3f6f6f11"

func dashboardRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/"+userID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestDashboardHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			GetUserFunc: func(_ context.Context, userID string) (*models.User, error) {
				require.Equal(t, dashUserID, userID)
				return &models.User{
					ID:            dashUserID,
					Name:          "Anna",
					Email:         "anna@example.com",
					PasswordHash:  "bcrypt-hash",
					PostsCount:    3,
					ProductsCount: 2,
					Followers:     7,
					TotalViews:    41,
					WalletBalance: 150,
				}, nil
			},
		}
		counter := &mockCounter{
			CountFunc: func(_ context.Context, userID string) (int, error) {
				require.Equal(t, dashUserID, userID)
				return 1, nil
			},
		}

		rr := httptest.NewRecorder()
		dashboard.New(makeLogger(), service, counter).ServeHTTP(rr, dashboardRequest(dashUserID))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "bcrypt-hash")

		var resp struct {
			Status string `json:"status"`
			Data   struct {
				User  models.PublicUser `json:"user"`
				Stats struct {
					PostsCount         int `json:"postsCount"`
					ProductsCount      int `json:"productsCount"`
					Followers          int `json:"followers"`
					SubscriptionsCount int `json:"subscriptionsCount"`
				} `json:"stats"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, "Anna", resp.Data.User.Name)
		assert.Equal(t, 3, resp.Data.Stats.PostsCount)
		assert.Equal(t, 2, resp.Data.Stats.ProductsCount)
		assert.Equal(t, 7, resp.Data.Stats.Followers)
		assert.Equal(t, 1, resp.Data.Stats.SubscriptionsCount)
	})

	t.Run("invalid user id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		dashboard.New(makeLogger(), &mockService{}, &mockCounter{}).
			ServeHTTP(rr, dashboardRequest("not-a-uuid"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("user not found", func(t *testing.T) {
		service := &mockService{
			GetUserFunc: func(_ context.Context, _ string) (*models.User, error) {
				return nil, repository.ErrNotFound
			},
		}

		rr := httptest.NewRecorder()
		dashboard.New(makeLogger(), service, &mockCounter{}).
			ServeHTTP(rr, dashboardRequest(dashUserID))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "user not found")
	})
}
