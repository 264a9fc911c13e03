// Package sender собирает воркер отправки квитанций: подключение к
// RabbitMQ, SMTP-транспорт и потребитель очереди платёжных событий.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/momconnect/backend/internal/config"
	"github.com/momconnect/backend/internal/lib/smtp"
	"github.com/momconnect/backend/internal/rabbitmq"
	senderservice "github.com/momconnect/backend/internal/services/sender"
	"github.com/momconnect/backend/internal/storage/repository"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection.RabbitMQURL,
		cfg.RabbitMQConnection.RabbitMQMaxRetries, cfg.RabbitMQConnection.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.New(db, newTransport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.PaymentSucceededQueue, a.senderService.HandlePaymentSucceeded)
	if err != nil {
		a.logger.Error("failed to start payments.succeeded consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
