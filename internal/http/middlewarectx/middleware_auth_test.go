package middlewarectx_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/http/middlewarectx"
	"github.com/momconnect/backend/internal/lib/jwt"
)

type mockValidator struct {
	ValidateFunc func(tokenStr string) (string, error)
}

func (m *mockValidator) ValidateAccess(tokenStr string) (string, error) {
	return m.ValidateFunc(tokenStr)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestJWTMiddleware(t *testing.T) {
	t.Run("valid token puts user id into context", func(t *testing.T) {
		validator := &mockValidator{
			ValidateFunc: func(tokenStr string) (string, error) {
				require.Equal(t, "token-123", tokenStr)
				return "user-1", nil
			},
		}

		var gotUserID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middlewarectx.UserIDFromContext(r.Context())
			require.True(t, ok)
			gotUserID = userID
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token-123")
		w := httptest.NewRecorder()

		middlewarectx.JWTMiddleware(validator, makeLogger())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("missing header returns 401", func(t *testing.T) {
		validator := &mockValidator{
			ValidateFunc: func(tokenStr string) (string, error) {
				t.Fatal("ValidateAccess should not be called")
				return "", nil
			},
		}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		middlewarectx.JWTMiddleware(validator, makeLogger())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer scheme returns 401", func(t *testing.T) {
		validator := &mockValidator{}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()

		middlewarectx.JWTMiddleware(validator, makeLogger())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token returns 401", func(t *testing.T) {
		validator := &mockValidator{
			ValidateFunc: func(tokenStr string) (string, error) {
				return "", jwt.ErrTokenExpired
			},
		}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		w := httptest.NewRecorder()

		middlewarectx.JWTMiddleware(validator, makeLogger())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := middlewarectx.UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), middlewarectx.UserID, "user-1")
	userID, ok := middlewarectx.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
