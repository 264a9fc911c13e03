package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/momconnect/backend/internal/services/payment"
)

// PublishMessage публикует сообщение в обменник с указанным ключом маршрутизации.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PaymentPublisher публикует события успешных платежей.
// Реализует payment.EventPublisher.
type PaymentPublisher struct {
	ch *amqp.Channel
}

// NewPaymentPublisher создает новый PaymentPublisher.
func NewPaymentPublisher(ch *amqp.Channel) *PaymentPublisher {
	return &PaymentPublisher{ch: ch}
}

// PublishPaymentSucceeded отправляет событие успешного платежа в обменник.
func (p *PaymentPublisher) PublishPaymentSucceeded(event payment.SucceededEvent) error {
	return PublishMessage(p.ch, PaymentsExchange, PaymentSucceededKey, event)
}
