package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена обменника и очереди платёжных событий.
const (
	PaymentsExchange      = "payments"
	PaymentSucceededQueue = "payments.succeeded"
	PaymentSucceededKey   = "succeeded"
)

// SetupChannel открывает канал и объявляет обменник платёжных событий
// с очередью для уведомлений о квитанциях.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		PaymentsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		PaymentSucceededQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind(PaymentSucceededQueue, PaymentSucceededKey, PaymentsExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}
