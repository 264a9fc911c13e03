package models

import "time"

// Планы подписки.
const (
	PlanBasic   = "BASIC"
	PlanPremium = "PREMIUM"
)

// Subscription — платная подписка пользователя. Создаётся только как побочный
// эффект успешной транзакции, метаданные которой содержат поле plan.
// Одна транзакция порождает не более одной подписки.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}
