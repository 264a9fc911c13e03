// Package chatcreate обрабатывает поиск-или-создание чата с участником.
package chatcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/momconnect/backend/internal/http/middlewarectx"
	"github.com/momconnect/backend/internal/http/response"
	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

// Request — входные данные создания чата.
type Request struct {
	ParticipantID string `json:"participantId" validate:"required,uuid4"`
}

// Service описывает интерфейс сервиса чатов.
type Service interface {
	GetOrCreateChat(ctx context.Context, userID, participantID string) (*models.Chat, error)
}

// Handler обрабатывает HTTP-запросы создания чата.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.ParticipantID == userID {
		log.Error("attempt to open chat with self")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cannot open chat with yourself"))
		return
	}

	chat, err := h.service.GetOrCreateChat(r.Context(), userID, req.ParticipantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("participant not found", slog.String("participant_id", req.ParticipantID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("participant not found"))
			return
		}
		log.Error("failed to get or create chat", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create chat"))
		return
	}

	log.Info("chat ready", slog.String("chat_id", chat.ID))
	render.JSON(w, r, response.OKWithData(chat))
}
