package chatcreate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/http/handlers/chat/chatcreate"
	"github.com/momconnect/backend/internal/http/middlewarectx"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

type mockService struct {
	GetOrCreateFunc func(ctx context.Context, userID, participantID string) (*models.Chat, error)
}

func (m *mockService) GetOrCreateChat(ctx context.Context, userID, participantID string) (*models.Chat, error) {
	return m.GetOrCreateFunc(ctx, userID, participantID)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

const (
	selfID        = "5c0f9df5-96ad-4b9c-9c0e-3d0a3f6f6f11"
	participantID = "82b4f3a4-0c15-4d72-a3dd-0f4f4b4de222"
)

func authedRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, selfID)
	return req.WithContext(ctx)
}

func TestChatCreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(chatcreate.Request{ParticipantID: participantID})

		service := &mockService{
			GetOrCreateFunc: func(ctx context.Context, userID, pID string) (*models.Chat, error) {
				require.Equal(t, selfID, userID)
				require.Equal(t, participantID, pID)
				return &models.Chat{ID: "chat-1"}, nil
			},
		}

		w := httptest.NewRecorder()
		chatcreate.New(makeLogger(), service).ServeHTTP(w, authedRequest(t, body))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "chat-1")
	})

	t.Run("chat with self is rejected", func(t *testing.T) {
		body, _ := json.Marshal(chatcreate.Request{ParticipantID: selfID})

		service := &mockService{
			GetOrCreateFunc: func(ctx context.Context, userID, pID string) (*models.Chat, error) {
				t.Fatal("GetOrCreateChat should not be called")
				return nil, nil
			},
		}

		w := httptest.NewRecorder()
		chatcreate.New(makeLogger(), service).ServeHTTP(w, authedRequest(t, body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown participant returns 404", func(t *testing.T) {
		body, _ := json.Marshal(chatcreate.Request{ParticipantID: participantID})

		service := &mockService{
			GetOrCreateFunc: func(ctx context.Context, userID, pID string) (*models.Chat, error) {
				return nil, repository.ErrNotFound
			},
		}

		w := httptest.NewRecorder()
		chatcreate.New(makeLogger(), service).ServeHTTP(w, authedRequest(t, body))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing user context returns 401", func(t *testing.T) {
		body, _ := json.Marshal(chatcreate.Request{ParticipantID: participantID})

		service := &mockService{}
		req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
		w := httptest.NewRecorder()

		chatcreate.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
