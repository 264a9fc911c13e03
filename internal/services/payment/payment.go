// Package payment реализует оркестрацию платежей: создание заказов в шлюзе,
// ведение собственного реестра транзакций, проверку подписи уведомления об
// оплате и однократную активацию подписки по успешному платежу.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/paymentgateway"
	"github.com/momconnect/backend/internal/storage/repository"
)

// ErrGatewayUnavailable возвращается, когда ключи шлюза не сконфигурированы.
// Запись в реестре при этом не создаётся.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// ErrInvalidPlan возвращается при неизвестном тарифе в метаданных заказа.
// Тариф проверяется при создании заказа: оплаченный заказ с тарифом,
// который нельзя активировать, уже не исправить.
var ErrInvalidPlan = errors.New("invalid subscription plan")

// Длительность подписки, активируемой успешным платежом.
const subscriptionDuration = 30 * 24 * time.Hour

// Gateway описывает контракт платёжного шлюза.
type Gateway interface {
	CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Ledger описывает контракт реестра транзакций и подписок.
type Ledger interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (string, error)
	GetTransactionByOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error)
	MarkTransactionSuccess(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (bool, error)
	MarkTransactionFailed(ctx context.Context, gatewayOrderID string) (bool, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
}

// EventPublisher публикует события об успешных платежах для внешних
// потребителей (например, отправки квитанций). Публикация выполняется
// после записи в реестр, отдельным шагом.
type EventPublisher interface {
	PublishPaymentSucceeded(event SucceededEvent) error
}

// SucceededEvent — событие успешного платежа.
type SucceededEvent struct {
	UserID           string `json:"user_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Plan             string `json:"plan,omitempty"`
}

// OrderInfo — данные для запуска чекаута шлюза на клиенте.
// Amount здесь в минорных единицах, как его вернул шлюз.
type OrderInfo struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// Service — оркестратор платежей. Gateway может быть nil, если ключи
// не заданы: тогда платёжные операции завершаются ErrGatewayUnavailable.
type Service struct {
	gateway Gateway
	ledger  Ledger
	events  EventPublisher // nil, если брокер не сконфигурирован
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(gateway Gateway, ledger Ledger, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		ledger:  ledger,
		events:  events,
		log:     log,
	}
}

// CreateOrder создаёт заказ в шлюзе и записывает PENDING-транзакцию.
// Вызывающие всегда передают сумму в основных единицах валюты; конвертация
// в минорные единицы (x100) выполняется только здесь, на границе со шлюзом.
func (s *Service) CreateOrder(ctx context.Context, userID string, amount int64, currency, description, kind string, metadata map[string]string) (*OrderInfo, error) {
	const op = "payment.CreateOrder"

	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if currency == "" {
		currency = "INR"
	}
	if kind == "" {
		kind = models.TransactionDebit
	}
	if plan, ok := metadata["plan"]; ok && plan != "" {
		normalized := strings.ToUpper(plan)
		if normalized != models.PlanBasic && normalized != models.PlanPremium {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlan)
		}
		metadata["plan"] = normalized
	}

	order, err := s.gateway.CreateOrder(ctx, paymentgateway.CreateOrderRequest{
		Amount:   amount * 100,
		Currency: currency,
		Receipt:  "receipt_" + uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.ledger.CreateTransaction(ctx, models.Transaction{
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		Kind:           kind,
		GatewayOrderID: order.ID,
		Description:    description,
		Metadata:       metadata,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &OrderInfo{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.gateway.KeyID(),
	}, nil
}

// VerifyPayment проверяет подпись уведомления об оплате и переводит
// транзакцию в терминальный статус. Возвращает true при валидной подписи.
//
// Повторный вызов с теми же данными безопасен: транзакция остаётся SUCCESS,
// подписка активируется не более одного раза — только при переходе,
// выполненном именно этим вызовом. Неизвестный order id не меняет реестр,
// но результат проверки подписи всё равно сообщается вызывающему.
func (s *Service) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (bool, error) {
	const op = "payment.VerifyPayment"

	if s.gateway == nil {
		return false, ErrGatewayUnavailable
	}

	if !s.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, gatewaySignature) {
		if _, err := s.ledger.MarkTransactionFailed(ctx, gatewayOrderID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return false, nil
	}

	tx, err := s.ledger.GetTransactionByOrderID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("verified payment for unknown order", slog.String("order_id", gatewayOrderID))
			return true, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	transitioned, err := s.ledger.MarkTransactionSuccess(ctx, gatewayOrderID, gatewayPaymentID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !transitioned {
		// Транзакция уже была в терминальном статусе: повторная доставка
		// уведомления, активация не повторяется.
		return true, nil
	}

	plan := tx.Metadata["plan"]
	if plan != "" {
		now := time.Now().UTC()
		if _, err := s.ledger.CreateSubscription(ctx, models.Subscription{
			UserID:    tx.UserID,
			Plan:      plan,
			StartDate: now,
			EndDate:   now.Add(subscriptionDuration),
			IsActive:  true,
		}); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishPaymentSucceeded(SucceededEvent{
			UserID:           tx.UserID,
			Amount:           tx.Amount,
			Currency:         tx.Currency,
			GatewayOrderID:   gatewayOrderID,
			GatewayPaymentID: gatewayPaymentID,
			Plan:             plan,
		}); err != nil {
			s.log.Error("failed to publish payment event", sl.Err(err))
		}
	}

	return true, nil
}
