package models

import "time"

// Виды транзакций.
const (
	TransactionCredit = "CREDIT"
	TransactionDebit  = "DEBIT"
)

// Статусы транзакции. Переход выполняется ровно один раз:
// PENDING -> SUCCESS либо PENDING -> FAILED, терминальное состояние неизменяемо.
const (
	TransactionPending = "PENDING"
	TransactionSuccess = "SUCCESS"
	TransactionFailed  = "FAILED"
)

// Transaction — собственная запись о попытке платежа, независимая от
// бухгалтерии платёжного шлюза. Сумма хранится в основных единицах валюты,
// конвертация в минорные единицы выполняется только на границе со шлюзом.
type Transaction struct {
	ID               string            // Идентификатор записи
	UserID           string            // Владелец транзакции
	Amount           int64             // Сумма в основных единицах валюты
	Currency         string            // Валюта, по умолчанию INR
	Kind             string            // CREDIT или DEBIT
	Status           string            // PENDING, SUCCESS или FAILED
	GatewayOrderID   string            // Идентификатор заказа в платёжном шлюзе
	GatewayPaymentID *string           // Идентификатор платежа, заполняется при успехе
	Description      string            // Назначение платежа
	Metadata         map[string]string // Произвольные данные, например {"plan": "PREMIUM"}
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
