// Package paymentverify обрабатывает подтверждение платежа подписью шлюза.
package paymentverify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/momconnect/backend/internal/http/response"
	"github.com/momconnect/backend/internal/lib/sl"
	paymentservice "github.com/momconnect/backend/internal/services/payment"
)

// Request — входные данные подтверждения платежа.
type Request struct {
	OrderID   string `json:"gatewayOrderId" validate:"required"`
	PaymentID string `json:"gatewayPaymentId" validate:"required"`
	Signature string `json:"gatewaySignature" validate:"required"`
}

// Service описывает интерфейс оркестратора платежей.
type Service interface {
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error)
}

// Handler обрабатывает HTTP-запросы подтверждения платежа.
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
	const op = "handlers.payment.verify"

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

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	valid, err := h.service.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, paymentservice.ErrGatewayUnavailable) {
			log.Error("payment gateway unavailable")
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
			return
		}
		log.Error("failed to verify payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not verify payment"))
		return
	}

	if !valid {
		log.Warn("payment signature mismatch", slog.String("order_id", req.OrderID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "payment verification failed",
			Data:   map[string]bool{"success": false},
		})
		return
	}

	log.Info("payment verified", slog.String("order_id", req.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]bool{"success": true}))
}
