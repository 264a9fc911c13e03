// Package dashboard обрабатывает выдачу публичного профиля пользователя
// со счётчиками постов и товаров.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/momconnect/backend/internal/http/response"
	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/storage/repository"
)

// Service описывает интерфейс получения пользователя.
type Service interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// SubscriptionCounter считает подписки пользователя.
type SubscriptionCounter interface {
	CountSubscriptionsByUser(ctx context.Context, userID string) (int, error)
}

// Handler обрабатывает HTTP-запросы дашборда.
type Handler struct {
	log     *slog.Logger
	service Service
	subs    SubscriptionCounter
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, subs SubscriptionCounter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		subs:    subs,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		log.Error("invalid user id", slog.String("user_id", userID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("user not found", slog.String("user_id", userID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard"))
		return
	}

	subscriptions, err := h.subs.CountSubscriptionsByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to count subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user.Public(),
		"stats": map[string]any{
			"postsCount":         user.PostsCount,
			"productsCount":      user.ProductsCount,
			"followers":          user.Followers,
			"totalViews":         user.TotalViews,
			"walletBalance":      user.WalletBalance,
			"subscriptionsCount": subscriptions,
		},
	}))
}
