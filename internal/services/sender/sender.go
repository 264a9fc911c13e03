// Package sender отправляет пользователям квитанции об успешных платежах.
// Сообщения поступают из очереди платёжных событий и доставляются по SMTP.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/lib/smtp"
	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/services/payment"
)

// UserRepository загружает пользователя для адресации письма.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Service потребляет события платежей и рассылает квитанции.
type Service struct {
	users     UserRepository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		transport: transport,
		log:       log,
	}
}

// HandlePaymentSucceeded обрабатывает одно событие успешного платежа:
// находит пользователя и отправляет ему квитанцию.
func (s *Service) HandlePaymentSucceeded(body []byte) error {
	var event payment.SucceededEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	user, err := s.users.GetUser(context.Background(), event.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", event.UserID, err)
	}

	subject := "Payment receipt"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour payment of %d %s was received.\nOrder: %s\nPayment: %s\n",
		user.Name, event.Amount, event.Currency, event.GatewayOrderID, event.GatewayPaymentID)
	if event.Plan != "" {
		bodyText += fmt.Sprintf("\nYour %s subscription is now active for 30 days.\n", event.Plan)
	}

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("receipt sent", slog.Any("to", to))
	return nil
}
