package repository

import (
	"context"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// CreateSubscription сохраняет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "repository.CreateSubscription"

	var newID string
	query := `INSERT INTO subscriptions (user_id, plan, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.Plan, sub.StartDate, sub.EndDate, sub.IsActive).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountSubscriptionsByUser возвращает количество подписок пользователя.
func (s *Storage) CountSubscriptionsByUser(ctx context.Context, userID string) (int, error) {
	const op = "repository.CountSubscriptionsByUser"

	var count int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
