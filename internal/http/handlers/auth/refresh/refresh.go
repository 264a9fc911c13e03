// Package refresh реализует HTTP-обработчик обновления access-токена.
//
// Контракт статусов: отсутствующий refresh-токен — 401, невалидный или
// истёкший — 403. Сам refresh-токен не ротируется.
package refresh

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/momconnect/backend/internal/http/response"
	"github.com/momconnect/backend/internal/lib/jwt"
	"github.com/momconnect/backend/internal/lib/sl"
)

// Request — входные данные обновления токена.
type Request struct {
	RefreshToken string `json:"refreshToken"`
}

// Service описывает интерфейс обновления access-токена.
type Service interface {
	Refresh(refreshToken string) (string, error)
}

// Handler обрабатывает HTTP-запросы обновления токена.
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
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if req.RefreshToken == "" {
		log.Error("refresh token required")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("refresh token required"))
		return
	}

	accessToken, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalid) || errors.Is(err, jwt.ErrTokenExpired) {
			log.Error("invalid refresh token", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("invalid refresh token"))
			return
		}
		log.Error("failed to refresh token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not refresh token"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"accessToken": accessToken,
	}))
}
