// Package paymentcreate обрабатывает создание платёжного заказа.
//
// Сумма в запросе указывается в основных единицах валюты; конвертацию
// в минорные единицы выполняет оркестратор на границе со шлюзом.
package paymentcreate

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
	paymentservice "github.com/momconnect/backend/internal/services/payment"
)

// Request — входные данные создания заказа.
type Request struct {
	Amount      int64             `json:"amount" validate:"required,gt=0"`
	Currency    string            `json:"currency"`
	Description string            `json:"description" validate:"required"`
	Type        string            `json:"type" validate:"omitempty,oneof=CREDIT DEBIT"`
	Metadata    map[string]string `json:"metadata"`
}

// Service описывает интерфейс оркестратора платежей.
type Service interface {
	CreateOrder(ctx context.Context, userID string, amount int64, currency, description, kind string, metadata map[string]string) (*paymentservice.OrderInfo, error)
}

// Handler обрабатывает HTTP-запросы создания заказа.
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
	const op = "handlers.payment.create"

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

	order, err := h.service.CreateOrder(r.Context(), userID, req.Amount, req.Currency, req.Description, req.Type, req.Metadata)
	if err != nil {
		if errors.Is(err, paymentservice.ErrGatewayUnavailable) {
			log.Error("payment gateway unavailable")
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
			return
		}
		if errors.Is(err, paymentservice.ErrInvalidPlan) {
			log.Error("invalid subscription plan in metadata")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid subscription plan"))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("order created", slog.String("order_id", order.OrderID))
	render.JSON(w, r, response.OKWithData(order))
}
