// Package chatmessages обрабатывает получение истории сообщений чата.
package chatmessages

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/momconnect/backend/internal/http/response"
	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/models"
)

// Service описывает интерфейс сервиса чатов.
type Service interface {
	ListMessages(ctx context.Context, chatID string) ([]*models.Message, error)
}

// Handler обрабатывает HTTP-запросы истории чата.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.messages"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	chatID := chi.URLParam(r, "chatId")
	if _, err := uuid.Parse(chatID); err != nil {
		log.Error("invalid chat id", slog.String("chat_id", chatID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid chat id"))
		return
	}

	messages, err := h.service.ListMessages(r.Context(), chatID)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list messages"))
		return
	}

	render.JSON(w, r, response.OKWithData(messages))
}
